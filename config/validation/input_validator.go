package validation

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// InputValidator validates adapter locations and ports typed by the user
type InputValidator struct {
}

// NewInputValidator creates a new InputValidator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateLocation checks that location is a host:port pair
func (iv *InputValidator) ValidateLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("adapter location cannot be empty")
	}
	if strings.Contains(location, "://") {
		return fmt.Errorf("adapter location must be host:port without a scheme")
	}
	host, port, err := net.SplitHostPort(location)
	if err != nil {
		return fmt.Errorf("adapter location must be host:port: %w", err)
	}
	if host == "" {
		return fmt.Errorf("adapter location is missing a host")
	}
	if strings.ContainsAny(host, " <>\"'&/\\") {
		return fmt.Errorf("adapter host contains invalid characters")
	}
	return iv.ValidatePort(port)
}

// ValidatePort checks that port is a number between 1 and 65535
func (iv *InputValidator) ValidatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port %q is not a number", port)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port %d is out of range (1-65535)", n)
	}
	return nil
}
