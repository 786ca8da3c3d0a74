package domain

import "errors"

var (
	ErrUnknownRole     = errors.New("unknown conversation role")
	ErrCorruptLog      = errors.New("corrupt conversation log")
	ErrStepLimit       = errors.New("tool step limit reached without a final answer")
	ErrEmptyCompletion = errors.New("model returned no choices")
)
