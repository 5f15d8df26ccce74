package wm

import "errors"

var (
	ErrScreenNotEmpty = errors.New("screen still owns tags")
	ErrTagHasClients  = errors.New("tag still has clients")
	ErrInvalidClient  = errors.New("client is not managed")
	ErrDoubleFinalize = errors.New("client is not dying")
	ErrUnknownScreen  = errors.New("unknown screen")
	ErrUnknownTag     = errors.New("unknown tag")
	ErrUnknownClient  = errors.New("unknown client")
	ErrUnknownLayout  = errors.New("unknown layout set")
	ErrCrossScreen    = errors.New("operation spans two screens")
)
