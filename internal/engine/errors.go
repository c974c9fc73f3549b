package engine

import (
	"errors"
	"fmt"
)

const (
	KindInvalidUnit   = "invalid-unit"
	KindInvalidDomain = "invalid-domain"
)

var (
	ErrInvalidUnit   = errors.New(KindInvalidUnit)
	ErrInvalidDomain = errors.New(KindInvalidDomain)
)

// UnknownUnitError reports a unit code that is not part of the domain's table.
type UnknownUnitError struct {
	Unit   string
	Domain Domain
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q for domain %q", e.Unit, e.Domain)
}

func (e *UnknownUnitError) Is(target error) bool { return target == ErrInvalidUnit }

// UnknownDomainError reports a domain tag outside length, weight, temperature and volume.
type UnknownDomainError struct {
	Domain string
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("unknown measurement domain %q", e.Domain)
}

func (e *UnknownDomainError) Is(target error) bool { return target == ErrInvalidDomain }

// Kind maps an error from this package to its error kind, or "" when it has none.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidUnit):
		return KindInvalidUnit
	case errors.Is(err, ErrInvalidDomain):
		return KindInvalidDomain
	case errors.Is(err, ErrNegativeValue):
		return KindNegativeValue
	case errors.Is(err, ErrOutOfRange):
		return KindOutOfRange
	}
	return ""
}
