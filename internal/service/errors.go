package service

import "errors"

var (
	ErrRunNotFound    = errors.New("run not found")
	ErrNotYourRun     = errors.New("run belongs to another player")
	ErrRunOver        = errors.New("run is already over")
	ErrNotAdvancable  = errors.New("run is not waiting on a floor advance")
	ErrNoProfile      = errors.New("no profile for player")
	ErrInvalidRequest = errors.New("invalid request")
)
