// SPDX-License-Identifier: MPL-2.0

package launcher

import "fmt"

// State is a point in the launch sequence. States only move forward.
type State int

const (
	StateStart State = iota
	StateStaged
	StateExtracted
	StatePayloadWritten
	StateEntryPointResolved
	StateLaunched
	StateExited
)

var stateNames = [...]string{
	StateStart:              "start",
	StateStaged:             "staged",
	StateExtracted:          "extracted",
	StatePayloadWritten:     "payload-written",
	StateEntryPointResolved: "entrypoint-resolved",
	StateLaunched:           "launched",
	StateExited:             "exited",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}
