// Package control holds descriptor-level socket adjustments that are applied
// as a unit, such as the reuse pair set before bind.
package control

// Func adjusts the socket behind a raw descriptor.
type Func = func(fd int) error

func Append(oldFunc Func, newFunc Func) Func {
	if oldFunc == nil {
		return newFunc
	} else if newFunc == nil {
		return oldFunc
	}
	return func(fd int) error {
		if err := oldFunc(fd); err != nil {
			return err
		}
		return newFunc(fd)
	}
}
