package usecase

import "errors"

var ErrUserNotRegistered = errors.New("user not registered")
