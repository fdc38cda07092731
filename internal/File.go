/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package internal

import (
	"runtime"
	"strings"
)

// IsReservedName returns true if fileName is a reserved device name on the
// current OS (relevant on Windows only).
func IsReservedName(fileName string) bool {
	if runtime.GOOS != "windows" {
		return false
	}

	// Sorted list
	var reserved = []string{"AUX", "COM0", "COM1", "COM2", "COM3", "COM4", "COM5", "COM6",
		"COM7", "COM8", "COM9", "COM¹", "COM²", "COM³", "CON", "LPT0", "LPT1", "LPT2",
		"LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9", "NUL", "PRN"}

	for _, r := range reserved {
		res := strings.Compare(fileName, r)

		if res == 0 {
			return true
		}

		if res < 0 {
			break
		}
	}

	return false
}
