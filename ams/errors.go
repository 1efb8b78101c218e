package ams

import "errors"

// Framing-level sentinel errors. The root package's AdsError wraps these
// with the matching numeric ADS error code (ERR_INVALIDAMSLENGTH = 14 for
// ErrInvalidAMSLength and ErrShortFrame, ERR_INTERNAL = 1 for
// ErrInvalidNetID); ams
// itself carries no error-code table, since the full taxonomy spans
// non-framing codes (router, device, RT, Winsock) it has no business knowing
// about.
var (
	ErrInvalidAMSLength = errors.New("ams: invalid AMS length or command id")
	ErrShortFrame       = errors.New("ams: frame shorter than header")
	ErrInvalidNetID     = errors.New("ams: invalid AMS NetId")
)
