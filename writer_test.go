package f4v

// writer builds synthetic box buffers for tests. Box sizes are backpatched
// by endBox, so fixtures nest naturally.
type writerFrame struct {
	offset int
	ext    bool
}

type writer struct {
	buf   []byte
	stack []writerFrame
}

func (w *writer) bytes() []byte { return w.buf }

func (w *writer) putUint8(v byte) {
	w.buf = append(w.buf, v)
}

func (w *writer) putUint16(v uint16) {
	w.buf = be.AppendUint16(w.buf, v)
}

func (w *writer) putUint24(v uint32) {
	w.buf = append(w.buf, byte(v>>16), byte(v>>8), byte(v))
}

func (w *writer) putUint32(v uint32) {
	w.buf = be.AppendUint32(w.buf, v)
}

func (w *writer) putUint64(v uint64) {
	w.buf = be.AppendUint64(w.buf, v)
}

func (w *writer) putBytes(p []byte) {
	w.buf = append(w.buf, p...)
}

// putString appends a null-terminated string.
func (w *writer) putString(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// putStringTable appends a 1-byte count followed by null-terminated strings.
func (w *writer) putStringTable(ss []string) {
	w.putUint8(byte(len(ss)))
	for _, s := range ss {
		w.putString(s)
	}
}

// startBox begins a box with a 32-bit size placeholder.
func (w *writer) startBox(t BoxType) {
	w.stack = append(w.stack, writerFrame{offset: len(w.buf)})
	w.putUint32(0)
	w.putBytes(t[:])
}

// startExtBox begins a box using the 64-bit extended size form.
func (w *writer) startExtBox(t BoxType) {
	w.stack = append(w.stack, writerFrame{offset: len(w.buf), ext: true})
	w.putUint32(1)
	w.putBytes(t[:])
	w.putUint64(0)
}

// endBox backpatches the size of the most recently started box.
func (w *writer) endBox() {
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	size := len(w.buf) - f.offset
	if f.ext {
		be.PutUint64(w.buf[f.offset+8:], uint64(size))
	} else {
		be.PutUint32(w.buf[f.offset:], uint32(size))
	}
}
