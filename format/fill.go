package format

import (
	"fmt"

	"github.com/gongfarmer/amqpval/kind"
	"github.com/gongfarmer/amqpval/valuetree"
)

// Fill writes args into t at the cursor, one per pattern code. The caller
// positions t's cursor first (Enter a composite to fill its body; a fresh
// tree fills at the top level).
func Fill(t *valuetree.Tree, pattern string, args ...interface{}) error {
	f := &filler{t: t, pat: []rune(pattern), args: args}
	if err := f.run(); err != nil {
		return err
	}
	if f.ai != len(f.args) {
		return fmt.Errorf("format: %d argument(s) left unconsumed", len(f.args)-f.ai)
	}
	return nil
}

type filler struct {
	t    *valuetree.Tree
	pat  []rune
	pos  int
	args []interface{}
	ai   int
}

func (f *filler) nextArg() (interface{}, error) {
	if f.ai >= len(f.args) {
		return nil, fmt.Errorf("format: pattern needs more arguments than were given")
	}
	a := f.args[f.ai]
	f.ai++
	return a, nil
}

// run processes codes from f.pos until the pattern ends or an unmatched
// ']'/'}' is reached (left unconsumed for the caller that opened it).
func (f *filler) run() error {
	for f.pos < len(f.pat) {
		ch := f.pat[f.pos]
		if ch == ']' || ch == '}' {
			return nil
		}
		if err := f.step(); err != nil {
			return err
		}
		for f.t.AutoExitIfComplete() {
		}
	}
	return nil
}

func (f *filler) step() error {
	ch := f.pat[f.pos]
	f.pos++
	switch ch {
	case 'n':
		return f.t.PutNull()
	case 'o':
		a, err := f.nextArg()
		if err != nil {
			return err
		}
		v, ok := a.(bool)
		if !ok {
			return fmt.Errorf("format: expected a bool argument for 'o', got %T", a)
		}
		return f.t.PutBool(v)
	case 'B':
		v, err := f.uintArg()
		if err != nil {
			return err
		}
		return f.t.PutUByte(uint8(v))
	case 'b':
		v, err := f.intArg()
		if err != nil {
			return err
		}
		return f.t.PutByte(int8(v))
	case 'H':
		v, err := f.uintArg()
		if err != nil {
			return err
		}
		return f.t.PutUShort(uint16(v))
	case 'h':
		v, err := f.intArg()
		if err != nil {
			return err
		}
		return f.t.PutShort(int16(v))
	case 'I':
		v, err := f.uintArg()
		if err != nil {
			return err
		}
		return f.t.PutUInt(uint32(v))
	case 'i':
		v, err := f.intArg()
		if err != nil {
			return err
		}
		return f.t.PutInt(int32(v))
	case 'L':
		v, err := f.uintArg()
		if err != nil {
			return err
		}
		return f.t.PutULong(v)
	case 'l':
		v, err := f.intArg()
		if err != nil {
			return err
		}
		return f.t.PutLong(v)
	case 't':
		v, err := f.intArg()
		if err != nil {
			return err
		}
		return f.t.PutTimestamp(v)
	case 'f':
		v, err := f.floatArg()
		if err != nil {
			return err
		}
		return f.t.PutFloat(float32(v))
	case 'd':
		v, err := f.floatArg()
		if err != nil {
			return err
		}
		return f.t.PutDouble(v)
	case 'c':
		a, err := f.nextArg()
		if err != nil {
			return err
		}
		r, err := toRune(a)
		if err != nil {
			return err
		}
		return f.t.PutChar(r)
	case 'z':
		a, err := f.nextArg()
		if err != nil {
			return err
		}
		v, err := toBytes(a)
		if err != nil {
			return err
		}
		return f.t.PutBinary(v)
	case 'S':
		v, err := f.bytesArg()
		if err != nil {
			return err
		}
		return f.t.PutString(v)
	case 's':
		v, err := f.bytesArg()
		if err != nil {
			return err
		}
		return f.t.PutSymbol(v)
	case 'D':
		if err := f.t.PutDescribed(); err != nil {
			return err
		}
		return f.t.Enter()
	case '@':
		return f.array()
	case '[':
		return f.composite(kind.List, ']')
	case '{':
		return f.composite(kind.Map, '}')
	case '?':
		return f.optional()
	case '*':
		return f.star()
	case 'C':
		return f.nestedTree()
	default:
		return fmt.Errorf("format: unsupported fill code %q", ch)
	}
}

func (f *filler) composite(k kind.Kind, close rune) error {
	var err error
	switch k {
	case kind.List:
		err = f.t.PutList()
	case kind.Map:
		err = f.t.PutMap()
	}
	if err != nil {
		return err
	}
	if err := f.t.Enter(); err != nil {
		return err
	}
	if err := f.run(); err != nil {
		return err
	}
	if f.pos >= len(f.pat) || f.pat[f.pos] != close {
		return fmt.Errorf("format: unterminated composite, expected %q", close)
	}
	f.pos++
	return f.t.Exit()
}

// array handles "@T[...]": a plain (undescribed) array (no dedicated code
// combines D with @).
func (f *filler) array() error {
	if f.pos >= len(f.pat) || f.pat[f.pos] != 'T' {
		return fmt.Errorf("format: '@' must be followed by 'T'")
	}
	f.pos++
	a, err := f.nextArg()
	if err != nil {
		return err
	}
	et, ok := a.(kind.Kind)
	if !ok {
		return fmt.Errorf("format: 'T' argument must be kind.Kind, got %T", a)
	}
	if err := f.t.PutArray(false, et); err != nil {
		return err
	}
	if f.pos >= len(f.pat) || f.pat[f.pos] != '[' {
		return fmt.Errorf("format: '@T' must be followed by '['")
	}
	f.pos++
	if err := f.t.Enter(); err != nil {
		return err
	}
	if err := f.run(); err != nil {
		return err
	}
	if f.pos >= len(f.pat) || f.pat[f.pos] != ']' {
		return fmt.Errorf("format: unterminated array, expected ']'")
	}
	f.pos++
	return f.t.Exit()
}

// optional implements "?": a predicate argument gates the single code
// that follows. A false predicate still has to consume that code's own
// arguments (so later pattern/argument positions line up), so it emits a
// null sentinel and redirects writes into it instead of skipping the code
// outright; AutoExitIfComplete discards the sentinel once its absorbed
// body completes.
func (f *filler) optional() error {
	a, err := f.nextArg()
	if err != nil {
		return err
	}
	pred, ok := a.(bool)
	if !ok {
		return fmt.Errorf("format: expected a bool predicate argument for '?', got %T", a)
	}
	if !pred {
		if err := f.t.PutNull(); err != nil {
			return err
		}
		if err := f.t.EnterSentinel(); err != nil {
			return err
		}
	}
	return nil
}

func (f *filler) star() error {
	a, err := f.nextArg()
	if err != nil {
		return err
	}
	count, err := toInt(a)
	if err != nil {
		return err
	}
	if f.pos >= len(f.pat) {
		return fmt.Errorf("format: '*' must be followed by a sub-code")
	}
	sub := f.pat[f.pos]
	f.pos++
	if sub != 's' {
		return fmt.Errorf("format: '*' only supports sub-code 's', got %q", sub)
	}
	for n := 0; n < count; n++ {
		v, err := f.bytesArg()
		if err != nil {
			return err
		}
		if err := f.t.PutSymbol(v); err != nil {
			return err
		}
		for f.t.AutoExitIfComplete() {
		}
	}
	return nil
}

// nestedTree implements "C": append one element copied from another tree,
// or null if that tree has nothing left to give. Grounded on
// valuetree.AppendN, which always reads from src's first available value.
func (f *filler) nestedTree() error {
	a, err := f.nextArg()
	if err != nil {
		return err
	}
	src, ok := a.(*valuetree.Tree)
	if !ok {
		return fmt.Errorf("format: 'C' argument must be *valuetree.Tree, got %T", a)
	}
	pt := src.Point()
	src.Rewind()
	has := src.Next()
	src.Restore(pt)
	if !has {
		return f.t.PutNull()
	}
	return f.t.AppendN(src, 1)
}

func (f *filler) uintArg() (uint64, error) {
	a, err := f.nextArg()
	if err != nil {
		return 0, err
	}
	return toUint64(a)
}

func (f *filler) intArg() (int64, error) {
	a, err := f.nextArg()
	if err != nil {
		return 0, err
	}
	return toInt64(a)
}

func (f *filler) floatArg() (float64, error) {
	a, err := f.nextArg()
	if err != nil {
		return 0, err
	}
	return toFloat64(a)
}

func (f *filler) bytesArg() ([]byte, error) {
	a, err := f.nextArg()
	if err != nil {
		return nil, err
	}
	return toBytes(a)
}
