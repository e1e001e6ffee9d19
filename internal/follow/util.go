package follow

import "errors"

// composeErrors joins the non-nil errors in errs, returning nil if there
// are none and the error itself if there is exactly one.
func composeErrors(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	}
	return errors.Join(nonNil...)
}
