// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"io/fs"

	"github.com/annoload/annoload/internal/catalog"
	"github.com/annoload/annoload/internal/game"
	"github.com/annoload/annoload/internal/issue"
	"github.com/annoload/annoload/internal/standalone"
	"github.com/annoload/annoload/internal/store"
	"github.com/annoload/annoload/pkg/types"
)

const retryHint = "The service may be briefly unavailable; run the command again later"

// operation starts the error context for one failing step of a command.
func operation(op, resource string) *issue.ErrorContext {
	return issue.NewErrorContext().WithOperation(op).WithResource(resource)
}

// exitWith wraps err in the collected context and attaches the exit code and
// issue catalog entry. Transient codes get a retry hint.
func exitWith(code types.ExitCode, id issue.Id, ec *issue.ErrorContext, err error) *ExitError {
	if code.IsTransient() {
		ec.WithSuggestion(retryHint)
	}
	return &ExitError{Code: code, Err: newServiceError(ec.Wrap(err).BuildError(), id, "")}
}

// classifyHostError maps a host failure onto an exit code and, where the
// issue catalog has help for it, a catalog entry. Unknown errors pass through.
func classifyHostError(err error, ec *issue.ErrorContext) error {
	if err == nil {
		return nil
	}

	switch {
	case game.IsContractViolation(err):
		ec.WithSuggestion("Run 'annoload status' to see which game path was recorded")
		return exitWith(types.ExitContractViolation, issue.GameNotDiscoveredId, ec, err)
	case errors.Is(err, store.ErrGameNotFound), errors.Is(err, standalone.ErrMissingRequiredFile):
		ec.WithSuggestion("Pass --game-path with the installation folder that contains Bin/Win64")
		return exitWith(types.ExitGameNotFound, issue.GameNotFoundId, ec, err)
	case errors.Is(err, standalone.ErrNoInstaller):
		ec.WithSuggestion("Run 'annoload classify' on the archive to see which files were expected")
		return exitWith(types.ExitNotSupported, issue.ArchiveNotSupportedId, ec, err)
	case errors.Is(err, fs.ErrPermission):
		ec.WithSuggestion("Check that the game folder is writable by the current user")
		return exitWith(types.ExitFailure, issue.PermissionDeniedId, ec, err)
	default:
		return err
	}
}

// classifyCatalogError maps a release catalog failure onto the unavailable
// exit code. Rate-limit exhaustion gets its own help entry.
func classifyCatalogError(err error, ec *issue.ErrorContext) error {
	if err == nil {
		return nil
	}

	id := issue.CatalogUnavailableId
	var netErr *catalog.NetworkError
	switch {
	case errors.As(err, &netErr) && netErr.RateLimit != nil:
		id = issue.RateLimitedId
		ec.WithSuggestion("Set GITHUB_TOKEN to raise the GitHub API rate limit")
	case errors.Is(err, catalog.ErrNotFound):
		ec.WithSuggestion("Check catalog.base_url and catalog.asset_pattern with 'annoload config show'")
	default:
		ec.WithSuggestion("Check the network connection and catalog.base_url")
	}
	return exitWith(types.ExitUnavailable, id, ec, err)
}

// classifyDownloadError maps a failed loader download onto the unavailable
// exit code.
func classifyDownloadError(err error, ec *issue.ErrorContext) error {
	if err == nil {
		return nil
	}
	ec.WithSuggestion("Check the network connection and that downloads.dir is writable")
	return exitWith(types.ExitUnavailable, issue.DownloadFailedId, ec, err)
}
