// Package platform hides the operating-system differences dotsync cares
// about: whether permission bits can be set and whether the default
// filesystem folds case.
package platform
