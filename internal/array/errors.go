package array

import "errors"

var (
	errNegativeSize   = errors.New("negative array size")
	errNegativeRepeat = errors.New("negative argument")
	errRepeatTooLarge = errors.New("argument too big")
)
