package scanner

import (
	"errors"
	"fmt"
	"strings"

	"fnscan/internal/domain"
)

// ErrInvalidArgumentSyntax is returned when an argument segment does not
// split into exactly one type and one name.
var ErrInvalidArgumentSyntax = errors.New("invalid argument syntax")

// ParseArguments splits a raw argument list such as "int a, int b" into
// arguments. An empty string is a valid zero-argument list.
func ParseArguments(list string) ([]domain.Argument, error) {
	args := []domain.Argument{}
	if list == "" {
		return args, nil
	}

	for _, segment := range strings.Split(list, ",") {
		parts := strings.Fields(segment)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidArgumentSyntax, segment)
		}
		args = append(args, domain.Argument{
			ArgType: parts[0],
			ArgName: parts[1],
		})
	}

	return args, nil
}
