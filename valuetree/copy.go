package valuetree

import "github.com/gongfarmer/amqpval/kind"

// Copy replaces dst's contents with a structural copy of src, leaving
// dst's cursor rewound. Grounded on the original source's pn_data_copy:
// clear, append, rewind.
func (dst *Tree) Copy(src *Tree) error {
	dst.Clear()
	if err := dst.Append(src); err != nil {
		return err
	}
	dst.Rewind()
	return nil
}

// Append copies every value at src's current nesting level (and,
// recursively, every value nested under them) into dst, starting from the
// first one regardless of where src's cursor is. Src is left at the cursor
// position it had on entry. Grounded on
// pn_data_append, which is pn_data_appendn with no limit.
func (dst *Tree) Append(src *Tree) error {
	return dst.AppendN(src, -1)
}

// AppendN copies up to limit top-level values from src into dst (-1 means
// unlimited). Grounded on pn_data_appendn: a depth-first walk of src via
// repeated Next calls, descending into composites on both trees together
// and counting only top-level (level 0) values against limit. Copy
// isolation follows directly from every leaf being copied by value through
// Put<Kind>/Get<Kind>, never by aliasing src's nodes or interned bytes.
func (dst *Tree) AppendN(src *Tree, limit int) error {
	saved := src.Point()
	src.Rewind()

	level := 0
	count := 0

	for {
		advanced := src.Next()
		for !advanced && level > 0 {
			if err := dst.Exit(); err != nil {
				src.Restore(saved)
				return err
			}
			if err := src.Exit(); err != nil {
				src.Restore(saved)
				return err
			}
			level--
			advanced = src.Next()
		}
		if !advanced {
			break
		}
		if level == 0 && count == limit {
			break
		}

		descend := false
		var err error
		switch src.Type() {
		case kind.Null:
			err = dst.PutNull()
		case kind.Bool:
			err = dst.PutBool(src.GetBool())
		case kind.UByte:
			err = dst.PutUByte(src.GetUByte())
		case kind.Byte:
			err = dst.PutByte(src.GetByte())
		case kind.UShort:
			err = dst.PutUShort(src.GetUShort())
		case kind.Short:
			err = dst.PutShort(src.GetShort())
		case kind.UInt:
			err = dst.PutUInt(src.GetUInt())
		case kind.Int:
			err = dst.PutInt(src.GetInt())
		case kind.Char:
			err = dst.PutChar(src.GetChar())
		case kind.ULong:
			err = dst.PutULong(src.GetULong())
		case kind.Long:
			err = dst.PutLong(src.GetLong())
		case kind.Timestamp:
			err = dst.PutTimestamp(src.GetTimestamp())
		case kind.Float:
			err = dst.PutFloat(src.GetFloat())
		case kind.Double:
			err = dst.PutDouble(src.GetDouble())
		case kind.Decimal32:
			err = dst.PutDecimal32(src.GetDecimal32())
		case kind.Decimal64:
			err = dst.PutDecimal64(src.GetDecimal64())
		case kind.Decimal128:
			err = dst.PutDecimal128(src.GetDecimal128())
		case kind.UUID:
			err = dst.PutUUID(src.GetUUID())
		case kind.Binary:
			err = dst.PutBinary(src.GetBinary())
		case kind.String:
			err = dst.PutString(src.GetString())
		case kind.Symbol:
			err = dst.PutSymbol(src.GetSymbol())
		case kind.Descriptor:
			err = dst.PutDescribed()
			descend = true
		case kind.Array:
			err = dst.PutArray(src.Described(), src.ElementType())
			descend = true
		case kind.List:
			err = dst.PutList()
			descend = true
		case kind.Map:
			err = dst.PutMap()
			descend = true
		default:
			err = argErr("append: cannot copy node of kind %s", src.Type())
		}

		if level == 0 {
			count++
		}
		if err != nil {
			src.Restore(saved)
			return err
		}

		if descend {
			if err := dst.Enter(); err != nil {
				src.Restore(saved)
				return err
			}
			if err := src.Enter(); err != nil {
				src.Restore(saved)
				return err
			}
			level++
		}
	}

	src.Restore(saved)
	return nil
}
