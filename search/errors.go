// Copyright 2026 Kodeks Bilisim
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import "errors"

var (
	// ErrSnapshotProviderRequired is returned when a snapshot provider is not provided.
	ErrSnapshotProviderRequired = errors.New("snapshot provider required")

	// ErrInvalidFusionWeights is returned for negative or all-zero fusion weights.
	ErrInvalidFusionWeights = errors.New("fusion weights must be non-negative and not both zero")

	// ErrInvalidHighlightCap is returned for a non-positive highlight cap.
	ErrInvalidHighlightCap = errors.New("highlight cap must be positive")
)
