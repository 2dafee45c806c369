/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package whitebox reads and writes non-public state of arbitrary struct
// instances, builds values through registered constructors and calls
// unexported methods, so that tests can reach into production types without
// changing them.
//
// # Model
//
// An instance is a non-nil pointer to a struct. The first embedded struct
// field (T or *T) of a struct is its supertype; following these links gives
// the ancestor chain. Lookups start from a defining type (the instance's own
// type unless another ancestor is given to Bind) and see:
//
//   - every field declared on the defining type, exported or not;
//   - the exported fields of its ancestors, plus their unexported fields when
//     the ancestor lives in the same package;
//   - static members registered for any of these types with RegisterVar and
//     RegisterConst.
//
// A field name contributed by a nearer type shadows the same name further
// up. Standard library ancestors, and those matched by
// config.WithPlatformPatterns, end the chain. When nothing visible matches,
// the lookup is retried from each ancestor in turn, where that ancestor's own
// unexported fields become visible.
//
// Methods are the exported methods of *T plus functions registered with
// RegisterMethod, which may share a name. Calls pick one overload by name,
// then by argument count, then by argument types.
//
// A pointer to a basic type is accepted wherever the basic type is declared:
//
//	h := whitebox.MustBind(&account)
//	n := int64(7)
//	_ = h.SetByType(&n) // stores 7 into the single int64 field
//
// # Global API
//
// Registration and resolution go through one process-wide snapshot holding
// the Config, the Registry, the Resolver and the Builder. Readers load it
// without locking. SetConfig, SetRegistry, SetResolver, SetBuilder and SetAll
// build a new snapshot under a lock and publish it atomically; a registry or
// resolver set explicitly is pinned and survives later rebuilds until
// UnpinRegistry or UnpinResolver.
//
// # Errors
//
// Every failure is an *Error naming the operation. Its chain carries an
// *apis.Error whose kind can be tested with errors.Is:
//
//	if errors.Is(err, whitebox.ErrAmbiguousMember) {
//		// specify the field by name instead
//	}
package whitebox
