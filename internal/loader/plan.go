// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"github.com/annoload/annoload/internal/game"
	"github.com/annoload/annoload/internal/host"
)

// PlanInstallation maps every archive entry onto itself and then redirects
// the batch to the loader mod type. The engine reads instructions in order,
// so the setmodtype instruction is always last.
func PlanInstallation(files []string) ([]host.Instruction, error) {
	if files == nil {
		return nil, ErrNilFileList
	}

	instructions := make([]host.Instruction, 0, len(files)+1)
	for _, f := range files {
		instructions = append(instructions, host.CopyInstruction(f, f))
	}
	instructions = append(instructions, host.SetModTypeInstruction(game.ModTypeLoader))

	return instructions, nil
}
