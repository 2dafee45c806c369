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

package guard

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"

	"dirpx.dev/whitebox/apis"
	"dirpx.dev/whitebox/primitive"
)

var errorType = reflect.TypeFor[error]()

// Call invokes m on the struct of type m.Owner stored at recv.
// No Token is acquired: a function value carries no accessibility flag, so the
// receiver is aliased at recv the way Acquire aliases a field.
//
// Arguments are converted the way field writes are. A panic raised by the
// method, or a non-nil trailing error result, is reported as InvokedMemberFailure
// with the original cause. The remaining results are returned as nil (none),
// the value itself (one) or a []any (several).
func Call(m apis.Method, recv unsafe.Pointer, args []any) (out any, err error) {
	if recv == nil {
		return nil, apis.Invalid(m.Name, "cannot invoke %s without an instance", m.Signature())
	}
	if !m.Arity(len(args)) {
		return nil, apis.Invalid(m.Name, "cannot invoke %s with %d arguments", m.Signature(), len(args))
	}
	in := make([]reflect.Value, 0, len(args)+1)
	receiver := reflect.NewAt(m.Owner, recv)
	if m.Receiver().Kind() != reflect.Ptr {
		receiver = receiver.Elem()
	}
	in = append(in, receiver)
	for i, a := range args {
		p := m.Param(i)
		v, ok := primitive.Coerce(p, reflect.ValueOf(a))
		if !ok {
			return nil, apis.Invalid(m.Name, "cannot pass %s as argument %d of %s",
				apis.TypeName(reflect.TypeOf(a)), i, m.Signature())
		}
		in = append(in, v)
	}

	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = errors.New(fmt.Sprint(r))
			}
			out, err = nil, apis.InvokedFailure(m.Name, errors.WithStack(cause))
		}
	}()
	results := m.Func.Call(in)

	ft := m.Func.Type()
	if n := ft.NumOut(); n > 0 && ft.Out(n-1) == errorType {
		last := results[n-1]
		results = results[:n-1]
		if !last.IsNil() {
			return nil, apis.InvokedFailure(m.Name, last.Interface().(error))
		}
	}
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0].Interface(), nil
	default:
		vals := make([]any, len(results))
		for i, r := range results {
			vals[i] = r.Interface()
		}
		return vals, nil
	}
}
