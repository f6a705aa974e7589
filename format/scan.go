package format

import (
	"fmt"

	"github.com/gongfarmer/amqpval/kind"
	"github.com/gongfarmer/amqpval/valuetree"
)

// Scan reads values from t at the cursor into args, one per pattern code.
// The caller positions t's cursor first (Enter a composite to scan its
// body).
func Scan(t *valuetree.Tree, pattern string, args ...interface{}) error {
	s := &scanner{t: t, pat: []rune(pattern), args: args}
	if _, err := s.run(false); err != nil {
		return err
	}
	if s.ai != len(s.args) {
		return fmt.Errorf("format: %d argument(s) left unconsumed", len(s.args)-s.ai)
	}
	return nil
}

type scanner struct {
	t    *valuetree.Tree
	pat  []rune
	pos  int
	args []interface{}
	ai   int
}

func (s *scanner) nextArg() (interface{}, error) {
	if s.ai >= len(s.args) {
		return nil, fmt.Errorf("format: pattern needs more arguments than were given")
	}
	a := s.args[s.ai]
	s.ai++
	return a, nil
}

// run processes codes from s.pos until the pattern ends or an unmatched
// ']'/'}' is reached. ghost means the enclosing structural code failed to
// match the tree: codes still consume pattern characters and argument
// slots, keeping later positions in lockstep, but never touch the tree
// cursor or write through an output pointer. The returned bool is false
// when a structural code scanned here failed to match the tree; scalar
// codes always count as matched (their kind is not checked).
func (s *scanner) run(ghost bool) (bool, error) {
	matched := true
	for s.pos < len(s.pat) {
		ch := s.pat[s.pos]
		if ch == ']' || ch == '}' {
			return matched, nil
		}
		ok, err := s.step(ghost)
		if err != nil {
			return false, err
		}
		if !ok {
			matched = false
		}
	}
	return matched, nil
}

func (s *scanner) step(ghost bool) (bool, error) {
	ch := s.pat[s.pos]
	s.pos++
	switch ch {
	case 'n':
		return true, s.scalar(ghost, func() {})
	case 'o':
		ptr, err := s.nextArg()
		if err != nil {
			return false, err
		}
		return true, s.scalar(ghost, func() {
			if p, ok := ptr.(*bool); ok {
				*p = s.t.GetBool()
			}
		})
	case 'B':
		ptr, err := s.nextArg()
		if err != nil {
			return false, err
		}
		return true, s.scalar(ghost, func() {
			if p, ok := ptr.(*uint8); ok {
				*p = s.t.GetUByte()
			}
		})
	case 'H', 'I', 'L':
		ptr, err := s.nextArg()
		if err != nil {
			return false, err
		}
		return true, s.scalar(ghost, func() { assignInt(ch, ptr, s) })
	default:
	}
	// the remaining scalar codes and the structural or variadic codes are
	// dispatched below.
	switch ch {
	case 'b', 'h', 'i', 'l', 't':
		a, err := s.nextArg()
		if err != nil {
			return false, err
		}
		return true, s.scalar(ghost, func() { assignInt(ch, a, s) })
	case 'f':
		ptr, err := s.nextArg()
		if err != nil {
			return false, err
		}
		return true, s.scalar(ghost, func() {
			if p, ok := ptr.(*float32); ok {
				*p = s.t.GetFloat()
			}
		})
	case 'd':
		ptr, err := s.nextArg()
		if err != nil {
			return false, err
		}
		return true, s.scalar(ghost, func() {
			if p, ok := ptr.(*float64); ok {
				*p = s.t.GetDouble()
			}
		})
	case 'c':
		ptr, err := s.nextArg()
		if err != nil {
			return false, err
		}
		return true, s.scalar(ghost, func() {
			if p, ok := ptr.(*rune); ok {
				*p = s.t.GetChar()
			}
		})
	case 'z':
		ptr, err := s.nextArg()
		if err != nil {
			return false, err
		}
		return true, s.scalar(ghost, func() {
			if p, ok := ptr.(*[]byte); ok {
				*p = s.t.GetBinary()
			}
		})
	case 'S':
		ptr, err := s.nextArg()
		if err != nil {
			return false, err
		}
		return true, s.scalar(ghost, func() {
			if p, ok := ptr.(*[]byte); ok {
				*p = s.t.GetString()
			}
		})
	case 's':
		ptr, err := s.nextArg()
		if err != nil {
			return false, err
		}
		return true, s.scalar(ghost, func() {
			if p, ok := ptr.(*[]byte); ok {
				*p = s.t.GetSymbol()
			}
		})
	case 'D':
		return s.descriptor(ghost)
	case '@':
		return s.array(ghost)
	case '[':
		return s.bracketBody(ghost, kind.List, ']')
	case '{':
		return s.bracketBody(ghost, kind.Map, '}')
	case '?':
		return s.optional(ghost)
	case '*':
		return s.star(ghost)
	case 'C':
		return s.nestedTree(ghost)
	case '.':
		return s.skip(ghost)
	default:
		return false, fmt.Errorf("format: unsupported scan code %q", ch)
	}
}

// scalar advances past one sibling (unless ghost) and, on success, calls
// assign to read it into the caller's output pointer.
func (s *scanner) scalar(ghost bool, assign func()) error {
	if ghost {
		return nil
	}
	if !s.t.Next() {
		return fmt.Errorf("format: scan ran out of values")
	}
	assign()
	return nil
}

func assignInt(ch rune, ptr interface{}, s *scanner) {
	switch ch {
	case 'b':
		if p, ok := ptr.(*int8); ok {
			*p = s.t.GetByte()
		}
	case 'h':
		if p, ok := ptr.(*int16); ok {
			*p = s.t.GetShort()
		}
	case 'i':
		if p, ok := ptr.(*int32); ok {
			*p = s.t.GetInt()
		}
	case 'l':
		if p, ok := ptr.(*int64); ok {
			*p = s.t.GetLong()
		}
	case 't':
		if p, ok := ptr.(*int64); ok {
			*p = s.t.GetTimestamp()
		}
	case 'H':
		if p, ok := ptr.(*uint16); ok {
			*p = s.t.GetUShort()
		}
	case 'I':
		if p, ok := ptr.(*uint32); ok {
			*p = s.t.GetUInt()
		}
	case 'L':
		if p, ok := ptr.(*uint64); ok {
			*p = s.t.GetULong()
		}
	}
}

// descriptor implements "D": peek whether the current sibling is a
// descriptor; if so, enter it and scan its two children for real; if not,
// restore the cursor and process the same two codes in ghost mode so the
// pattern and argument positions stay aligned (a recursive ghost flag in
// place of a numeric resume counter).
func (s *scanner) descriptor(ghost bool) (bool, error) {
	entered := false
	if !ghost {
		pt := s.t.Point()
		if s.t.Next() && s.t.Type() == kind.Descriptor {
			if err := s.t.Enter(); err != nil {
				return false, err
			}
			entered = true
		} else {
			s.t.Restore(pt)
		}
	}
	g := ghost || !entered
	if _, err := s.step(g); err != nil {
		return false, err
	}
	if _, err := s.step(g); err != nil {
		return false, err
	}
	if entered {
		if err := s.t.Exit(); err != nil {
			return false, err
		}
	}
	return entered, nil
}

// array implements "@T[...]".
func (s *scanner) array(ghost bool) (bool, error) {
	if s.pos >= len(s.pat) || s.pat[s.pos] != 'T' {
		return false, fmt.Errorf("format: '@' must be followed by 'T'")
	}
	s.pos++
	ptr, err := s.nextArg()
	if err != nil {
		return false, err
	}
	if s.pos >= len(s.pat) || s.pat[s.pos] != '[' {
		return false, fmt.Errorf("format: '@T' must be followed by '['")
	}
	s.pos++

	entered := false
	if !ghost {
		pt := s.t.Point()
		if s.t.Next() && s.t.Type() == kind.Array {
			if p, ok := ptr.(*kind.Kind); ok {
				*p = s.t.ElementType()
			}
			if err := s.t.Enter(); err != nil {
				return false, err
			}
			entered = true
		} else {
			s.t.Restore(pt)
		}
	}
	bodyMatched, err := s.run(ghost || !entered)
	if err != nil {
		return false, err
	}
	if s.pos >= len(s.pat) || s.pat[s.pos] != ']' {
		return false, fmt.Errorf("format: unterminated array, expected ']'")
	}
	s.pos++
	if entered {
		if err := s.t.Exit(); err != nil {
			return false, err
		}
	}
	return entered && bodyMatched, nil
}

func (s *scanner) bracketBody(ghost bool, want kind.Kind, close rune) (bool, error) {
	entered := false
	if !ghost {
		pt := s.t.Point()
		if s.t.Next() && s.t.Type() == want {
			if err := s.t.Enter(); err != nil {
				return false, err
			}
			entered = true
		} else {
			s.t.Restore(pt)
		}
	}
	matched, err := s.run(ghost || !entered)
	if err != nil {
		return false, err
	}
	if s.pos >= len(s.pat) || s.pat[s.pos] != close {
		return false, fmt.Errorf("format: unterminated composite, expected %q", close)
	}
	s.pos++
	if entered {
		if err := s.t.Exit(); err != nil {
			return false, err
		}
	}
	return entered && matched, nil
}

// optional implements "?": the next code's match outcome is reported
// through a bool output pointer instead of gating a predicate (scan runs
// in the opposite direction from fill: the tree dictates what is there).
func (s *scanner) optional(ghost bool) (bool, error) {
	ptr, err := s.nextArg()
	if err != nil {
		return false, err
	}
	if s.pos >= len(s.pat) {
		return false, fmt.Errorf("format: '?' must be followed by a code")
	}
	matched, err := s.step(ghost)
	if err != nil {
		return false, err
	}
	if !ghost {
		if p, ok := ptr.(*bool); ok {
			*p = matched
		}
	}
	return true, nil
}

// star implements "*s": read a run of symbols, writing the count and the
// collected values through the two output pointers.
func (s *scanner) star(ghost bool) (bool, error) {
	countPtr, err := s.nextArg()
	if err != nil {
		return false, err
	}
	if s.pos >= len(s.pat) || s.pat[s.pos] != 's' {
		return false, fmt.Errorf("format: '*' only supports sub-code 's'")
	}
	s.pos++
	outPtr, err := s.nextArg()
	if err != nil {
		return false, err
	}
	if ghost {
		return true, nil
	}
	cp, ok := countPtr.(*int)
	if !ok {
		return false, fmt.Errorf("format: '*' count argument must be *int, got %T", countPtr)
	}
	op, ok := outPtr.(*[][]byte)
	if !ok {
		return false, fmt.Errorf("format: '*s' collection argument must be *[][]byte, got %T", outPtr)
	}
	var collected [][]byte
	for {
		pt := s.t.Point()
		if !s.t.Next() {
			break
		}
		if s.t.Type() != kind.Symbol {
			s.t.Restore(pt)
			break
		}
		collected = append(collected, s.t.GetSymbol())
	}
	*cp = len(collected)
	*op = collected
	return true, nil
}

// nestedTree implements "C": copy the current sibling (and, if composite,
// everything beneath it) into an output tree.
func (s *scanner) nestedTree(ghost bool) (bool, error) {
	a, err := s.nextArg()
	if err != nil {
		return false, err
	}
	dst, ok := a.(*valuetree.Tree)
	if !ok {
		return false, fmt.Errorf("format: 'C' argument must be *valuetree.Tree, got %T", a)
	}
	if ghost {
		return true, nil
	}
	if !s.t.Next() {
		return false, fmt.Errorf("format: scan ran out of values")
	}
	return true, copyCurrent(dst, s.t)
}

func (s *scanner) skip(ghost bool) (bool, error) {
	if ghost {
		return true, nil
	}
	if !s.t.Next() {
		return false, fmt.Errorf("format: scan ran out of values to skip")
	}
	return true, nil
}

// copyCurrent copies the node under src's cursor into dst, descending
// into composites. Unlike valuetree.AppendN (which always restarts from
// src's first sibling), this copies exactly the node src is parked on, to
// serve the "C" code's "append current element" semantics.
func copyCurrent(dst, src *valuetree.Tree) error {
	switch src.Type() {
	case kind.Null:
		return dst.PutNull()
	case kind.Bool:
		return dst.PutBool(src.GetBool())
	case kind.UByte:
		return dst.PutUByte(src.GetUByte())
	case kind.Byte:
		return dst.PutByte(src.GetByte())
	case kind.UShort:
		return dst.PutUShort(src.GetUShort())
	case kind.Short:
		return dst.PutShort(src.GetShort())
	case kind.UInt:
		return dst.PutUInt(src.GetUInt())
	case kind.Int:
		return dst.PutInt(src.GetInt())
	case kind.Char:
		return dst.PutChar(src.GetChar())
	case kind.ULong:
		return dst.PutULong(src.GetULong())
	case kind.Long:
		return dst.PutLong(src.GetLong())
	case kind.Timestamp:
		return dst.PutTimestamp(src.GetTimestamp())
	case kind.Float:
		return dst.PutFloat(src.GetFloat())
	case kind.Double:
		return dst.PutDouble(src.GetDouble())
	case kind.Decimal32:
		return dst.PutDecimal32(src.GetDecimal32())
	case kind.Decimal64:
		return dst.PutDecimal64(src.GetDecimal64())
	case kind.Decimal128:
		return dst.PutDecimal128(src.GetDecimal128())
	case kind.UUID:
		return dst.PutUUID(src.GetUUID())
	case kind.Binary:
		return dst.PutBinary(src.GetBinary())
	case kind.String:
		return dst.PutString(src.GetString())
	case kind.Symbol:
		return dst.PutSymbol(src.GetSymbol())
	case kind.List:
		if err := dst.PutList(); err != nil {
			return err
		}
		return copyChildren(dst, src)
	case kind.Map:
		if err := dst.PutMap(); err != nil {
			return err
		}
		return copyChildren(dst, src)
	case kind.Descriptor:
		if err := dst.PutDescribed(); err != nil {
			return err
		}
		return copyChildren(dst, src)
	case kind.Array:
		if err := dst.PutArray(src.Described(), src.ElementType()); err != nil {
			return err
		}
		return copyChildren(dst, src)
	default:
		return fmt.Errorf("format: cannot copy node of kind %s", src.Type())
	}
}

func copyChildren(dst, src *valuetree.Tree) error {
	if err := dst.Enter(); err != nil {
		return err
	}
	if err := src.Enter(); err != nil {
		return err
	}
	for src.Next() {
		if err := copyCurrent(dst, src); err != nil {
			_ = src.Exit()
			return err
		}
	}
	if err := src.Exit(); err != nil {
		return err
	}
	return dst.Exit()
}
