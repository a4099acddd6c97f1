package packer

import "sort"

// encodeList encodes a generic ordered sequence. Before falling back to
// this per-element path, the dispatch switch in encoder.go already
// routed TypedArray and BoolBitList values elsewhere; what reaches here
// also gets one more chance at compaction via the numeric-list
// promotion heuristic (encode_numeric.go) before writing element-by-
// element.
func (e *Encoder) encodeList(v List) error {
	if handled, err := e.tryPromoteNumericList(v); err != nil {
		return err
	} else if handled {
		return nil
	}

	if uint32(len(v)) > e.cfg.MaxArrayLength {
		return limitExceeded("maxArrayLength", int(e.cfg.MaxArrayLength), len(v))
	}
	if err := e.enterContainer(); err != nil {
		return err
	}
	defer e.exitContainer()

	e.writeArrayHeader(len(v))
	for _, item := range v {
		if err := e.encodeValue(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeArrayHeader(n int) {
	switch sizeClassForLength(n, 15) {
	case sizeFix:
		e.writeByte(prefixFixArrayMin | byte(n))
	case size8, size16:
		e.writeByte(prefixArray16)
		e.writeUint16(uint16(n))
	default:
		e.writeByte(prefixArray32)
		e.writeUint32(uint32(n))
	}
}

// encodeMap chooses the smallest map family for the entry count and, if
// deterministicMaps is set and every key is Text, emits entries in
// lexicographic key order; otherwise insertion order (spec §3 invariant
// 6, §4.2).
func (e *Encoder) encodeMap(v *Map) error {
	if uint32(len(v.Keys)) > e.cfg.MaxMapLength {
		return limitExceeded("maxMapLength", int(e.cfg.MaxMapLength), len(v.Keys))
	}
	if err := e.enterContainer(); err != nil {
		return err
	}
	defer e.exitContainer()

	e.writeMapHeader(len(v.Keys))

	allText := v.allKeysText()
	if e.cfg.DeterministicMaps && allText {
		type entry struct {
			key string
			val Value
		}
		entries := make([]entry, len(v.Keys))
		for i, k := range v.Keys {
			entries[i] = entry{key: string(k.(Text)), val: v.Values[i]}
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		for _, en := range entries {
			if err := e.encodeValue(Text(en.key)); err != nil {
				return err
			}
			if err := e.encodeValue(en.val); err != nil {
				return err
			}
		}
		return nil
	}

	// Insertion order. When every key is Text, the per-entry key is
	// known to already be a string — this still goes through the
	// generic path, but skips nothing unsafe: encodeValue's Text arm is
	// already the cheapest arm in the switch.
	for i, k := range v.Keys {
		if err := e.encodeValue(k); err != nil {
			return err
		}
		if err := e.encodeValue(v.Values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeMapHeader(n int) {
	switch sizeClassForLength(n, 15) {
	case sizeFix:
		e.writeByte(prefixFixMapMin | byte(n))
	case size8, size16:
		e.writeByte(prefixMap16)
		e.writeUint16(uint16(n))
	default:
		e.writeByte(prefixMap32)
		e.writeUint32(uint32(n))
	}
}

// encodeSet writes the "set" ext: a four-byte entry count followed by
// encoded elements. The ext-length field must be patched after the
// payload is written since the encoded size of the elements isn't known
// in advance (spec §4.2).
func (e *Encoder) encodeSet(v Set) error {
	if err := e.enterContainer(); err != nil {
		return err
	}
	defer e.exitContainer()
	return e.encodeExtWithPatchedLength(extSet, func() error {
		e.writeUint32(uint32(len(v)))
		for _, item := range v {
			if err := e.encodeValue(item); err != nil {
				return err
			}
		}
		return nil
	})
}
