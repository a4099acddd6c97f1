package packer

// decodeList reads n elements into a List.
func (d *Decoder) decodeList(n int) (Value, error) {
	if uint32(n) > d.cfg.MaxArrayLength {
		return nil, limitExceeded("maxArrayLength", int(d.cfg.MaxArrayLength), n)
	}
	if err := d.enterContainer(); err != nil {
		return nil, err
	}
	defer d.exitContainer()

	out := make(List, n)
	for i := 0; i < n; i++ {
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// decodeMap reads n key/value pairs into a Map. Each key goes through
// decodeMapKey's string-prefix fast path rather than the full dispatch
// switch: for the overwhelmingly common Text-keyed map, this skips
// straight to decodeText instead of paying for a type-switch branch
// that always lands on the same case. A Map here is always the one
// Keys/Values representation regardless of which path a given key
// took, so there's no structure to "lift" when a non-Text key appears
// partway through — the fallback spec §4.3 describes collapses to
// just calling decodeValue for that one key.
func (d *Decoder) decodeMap(n int) (Value, error) {
	if uint32(n) > d.cfg.MaxMapLength {
		return nil, limitExceeded("maxMapLength", int(d.cfg.MaxMapLength), n)
	}
	if err := d.enterContainer(); err != nil {
		return nil, err
	}
	defer d.exitContainer()

	m := &Map{Keys: make([]Value, n), Values: make([]Value, n)}
	for i := 0; i < n; i++ {
		k, err := d.decodeMapKey()
		if err != nil {
			return nil, err
		}
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		m.Keys[i] = k
		m.Values[i] = v
	}
	return m, nil
}

// decodeMapKey reads one map key, taking the string-prefix fast path
// directly to decodeText when the next byte names one of the string
// families (spec §4.3: "peek the first prefix; if it classifies as a
// string prefix, ..."), and falling back to the generic dispatch for
// any other prefix.
func (d *Decoder) decodeMapKey() (Value, error) {
	if d.pos >= len(d.buf) {
		return nil, truncated(d.pos, 1, 0)
	}
	prefix := d.buf[d.pos]

	switch {
	case prefix >= prefixFixStrMin && prefix <= prefixFixStrMax:
		d.pos++
		return d.decodeText(int(prefix & 0x1F))
	case prefix == prefixStr8:
		d.pos++
		n, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return d.decodeText(int(n))
	case prefix == prefixStr16:
		d.pos++
		n, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		return d.decodeText(int(n))
	case prefix == prefixStr32:
		d.pos++
		n, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return d.decodeText(int(n))
	default:
		return d.decodeValue()
	}
}

// decodeSet reads the "set" ext body: a u32 entry count followed by
// that many encoded elements. extBodyLen isn't checked here; decodeExt
// compares the bytes consumed against it after this returns and raises
// trailingBytes on a mismatch.
func (d *Decoder) decodeSet(extBodyLen int) (Value, error) {
	if err := d.enterContainer(); err != nil {
		return nil, err
	}
	defer d.exitContainer()

	n, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	out := make(Set, n)
	for i := range out {
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
