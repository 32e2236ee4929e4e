// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"errors"
	"fmt"
)

const (
	// InstructionCopy copies an archive entry to a destination relative to the install target.
	InstructionCopy InstructionType = "copy"
	// InstructionSetModType redirects the whole install batch to a registered mod type's folder.
	InstructionSetModType InstructionType = "setmodtype"
)

// ErrInvalidInstruction is the sentinel error wrapped by InvalidInstructionError.
var ErrInvalidInstruction = errors.New("invalid install instruction")

type (
	// InstructionType discriminates the Instruction variants.
	InstructionType string

	// Instruction is one placement step returned by an installer. Copy uses
	// Source and Destination; SetModType uses Value. The host engine consumes
	// instructions in order.
	Instruction struct {
		Type        InstructionType `json:"type" toml:"type"`
		Source      string          `json:"source,omitempty" toml:"source,omitempty"`
		Destination string          `json:"destination,omitempty" toml:"destination,omitempty"`
		Value       string          `json:"value,omitempty" toml:"value,omitempty"`
	}

	// InvalidInstructionError is returned when an Instruction is missing fields
	// required by its type.
	InvalidInstructionError struct {
		Instruction Instruction
		Reason      string
	}

	// SupportedResult is an installer's answer to "can you install this archive?".
	SupportedResult struct {
		Supported     bool
		RequiredFiles []string
	}

	// Discovery is what the host knows about where a game is installed.
	Discovery struct {
		GameID string
		Path   string
	}

	// GameRegistration describes a game to the host.
	GameRegistration struct {
		ID            string
		Name          string
		MergeMods     bool
		QueryPath     func(ctx context.Context) (string, error)
		QueryModPath  func(gamePath string) string
		Executable    func() string
		RequiredFiles []string
		Setup         func(ctx context.Context, discovery Discovery) error
	}

	// ModType is a named install target that redirects files away from the
	// game's default mod folder.
	ModType struct {
		Name        string
		Priority    int
		IsSupported func(gameID string) bool
		TargetPath  func() (string, error)
		IsDefault   bool
	}

	// Installer decides whether it handles an archive (Test) and produces
	// placement instructions for it (Install).
	Installer struct {
		Name     string
		Priority int
		Test     func(ctx context.Context, files []string, gameID string) (SupportedResult, error)
		Install  func(ctx context.Context, files []string) ([]Instruction, error)
	}

	// GameModeActivatedHandler handles the gamemode-activated event.
	GameModeActivatedHandler func(ctx context.Context, gameID string)

	// Registry is the host surface an extension registers itself against.
	Registry interface {
		RegisterGame(game GameRegistration) error
		RegisterModType(modType ModType) error
		RegisterInstaller(installer Installer) error
		OnGameModeActivated(handler GameModeActivatedHandler)
	}
)

// CopyInstruction builds a copy instruction.
func CopyInstruction(source, destination string) Instruction {
	return Instruction{Type: InstructionCopy, Source: source, Destination: destination}
}

// SetModTypeInstruction builds an instruction selecting a mod type for the batch.
func SetModTypeInstruction(modType string) Instruction {
	return Instruction{Type: InstructionSetModType, Value: modType}
}

// Validate checks that the instruction carries the fields its type requires.
func (i Instruction) Validate() error {
	switch i.Type {
	case InstructionCopy:
		if i.Source == "" || i.Destination == "" {
			return &InvalidInstructionError{Instruction: i, Reason: "copy requires source and destination"}
		}
	case InstructionSetModType:
		if i.Value == "" {
			return &InvalidInstructionError{Instruction: i, Reason: "setmodtype requires a value"}
		}
	default:
		return &InvalidInstructionError{Instruction: i, Reason: fmt.Sprintf("unknown type %q", i.Type)}
	}
	return nil
}

// Error implements the error interface for InvalidInstructionError.
func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid %s instruction: %s", e.Instruction.Type, e.Reason)
}

// Unwrap returns ErrInvalidInstruction for errors.Is() compatibility.
func (e *InvalidInstructionError) Unwrap() error { return ErrInvalidInstruction }
