// Package follow prints a file's trailing content and then streams bytes
// appended to it, in the manner of tail -f.
//
// Growth is observed either through filesystem notifications (fsnotify) or
// by polling the file's size at a fixed interval. Both watchers only signal
// that the file may have changed; the follower then reads whatever new bytes
// are available, so spurious wakeups are harmless.
package follow
