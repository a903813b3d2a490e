package buf

import "sync"

// BufferSize is the size of pooled transfer buffers.
const BufferSize = 32 * 1024

var pool = sync.Pool{
	New: func() any {
		buffer := make([]byte, BufferSize)
		return &buffer
	},
}

func Get() []byte {
	return *pool.Get().(*[]byte)
}

// Put returns a buffer obtained from Get. Buffers of any other size are
// dropped.
func Put(buffer []byte) {
	if cap(buffer) != BufferSize {
		return
	}
	buffer = buffer[:BufferSize]
	pool.Put(&buffer)
}
