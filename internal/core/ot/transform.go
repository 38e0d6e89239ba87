package ot

// Transform rewrites a so it can be applied after concurrent b while
// preserving a's intended effect (TP1: applying a then Transform(b,a) and
// b then Transform(a,b) yield byte-identical content)
//
// The result is a sequentially applicable list: a delete crossed by a
// concurrent insert splits into two deletes (emitted higher range first so
// earlier pieces do not shift later ones). Replace is decomposed into
// delete+insert for transformation and recomposed when the pieces still
// form a contiguous replace
func Transform(a, b Operation) []Operation {
	out := transformLL(decompose(a), decompose(b))
	if a.Kind == KindReplace {
		out = recompose(out)
	}
	return prune(out, a)
}

// TransformAll rewrites op against every committed operation in order
// committed must be the flattened, sequentially applicable history between
// the op's base version and the current version
func TransformAll(op Operation, committed []Operation) []Operation {
	flat := make([]Operation, 0, len(committed))
	for _, c := range committed {
		flat = append(flat, decompose(c)...)
	}
	out := transformLL(decompose(op), flat)
	if op.Kind == KindReplace {
		out = recompose(out)
	}
	return prune(out, op)
}

// decompose expands replace into its delete+insert pair; the insert is
// expressed against the post-delete content, which makes the pair a valid
// sequential list
func decompose(o Operation) []Operation {
	if o.Kind != KindReplace {
		return []Operation{o}
	}
	return []Operation{
		Delete(o.Position, o.Length, o.Author, o.Timestamp),
		Insert(o.Position, o.Text, o.Author, o.Timestamp),
	}
}

// recompose collapses a trailing delete+insert at the same position back
// into a replace; split deletes stay primitive
func recompose(ops []Operation) []Operation {
	if len(ops) < 2 {
		return ops
	}
	d, i := ops[len(ops)-2], ops[len(ops)-1]
	if d.Kind == KindDelete && i.Kind == KindInsert && d.Position == i.Position {
		r := Replace(d.Position, d.Length, i.Text, i.Author, i.Timestamp)
		return append(append([]Operation{}, ops[:len(ops)-2]...), r)
	}
	return ops
}

// prune drops zero-effect pieces; a fully swallowed operation degrades to a
// single noop delete so callers still have an operation to log
func prune(ops []Operation, orig Operation) []Operation {
	out := ops[:0:0]
	for _, o := range ops {
		if !o.Noop() {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []Operation{Delete(0, 0, orig.Author, orig.Timestamp)}
	}
	return out
}

// transformLL transforms sequential list a against sequential list b
// both lists hold primitives only (insert/delete)
func transformLL(a, b []Operation) []Operation {
	if len(a) == 0 || len(b) == 0 {
		return a
	}
	if len(b) > 1 {
		// cross b one op at a time
		return transformLL(transformLL(a, b[:1]), b[1:])
	}
	if len(a) == 1 {
		return t1(a[0], b[0])
	}
	// a = head ++ rest: rest is expressed against base+head, so b must be
	// carried over head before rest can cross it
	head := transformLL(a[:1], b)
	bOverHead := transformLL(b, a[:1])
	rest := transformLL(a[1:], bOverHead)
	return append(head, rest...)
}

// t1 implements the pairwise transform for the primitive kinds
func t1(a, b Operation) []Operation {
	switch {
	case a.Kind == KindInsert && b.Kind == KindInsert:
		return []Operation{insertVsInsert(a, b)}
	case a.Kind == KindInsert && b.Kind == KindDelete:
		return []Operation{insertVsDelete(a, b)}
	case a.Kind == KindDelete && b.Kind == KindInsert:
		return deleteVsInsert(a, b)
	case a.Kind == KindDelete && b.Kind == KindDelete:
		return []Operation{deleteVsDelete(a, b)}
	}
	// unreachable for primitives
	return []Operation{a}
}

// insertVsInsert shifts a past b unless a sorts first; equal positions
// break the tie on lexicographic author id so both sides agree
func insertVsInsert(a, b Operation) Operation {
	if a.Position < b.Position || (a.Position == b.Position && a.Author < b.Author) {
		return a
	}
	a.Position += len(b.Text)
	return a
}

// insertVsDelete keeps a before the deleted range, shifts it down past it,
// or relocates it to the delete's start when it fell inside
func insertVsDelete(a, b Operation) Operation {
	switch {
	case a.Position <= b.Position:
		return a
	case a.Position >= b.end():
		a.Position -= b.Length
		return a
	default:
		a.Position = b.Position
		return a
	}
}

// deleteVsInsert shifts a past b, or splits a around text inserted inside
// its range; the higher piece is emitted first so sequential application of
// the pair stays position-stable
func deleteVsInsert(a, b Operation) []Operation {
	switch {
	case a.end() <= b.Position:
		return []Operation{a}
	case a.Position >= b.Position:
		a.Position += len(b.Text)
		return []Operation{a}
	default:
		hi := Delete(b.Position+len(b.Text), a.end()-b.Position, a.Author, a.Timestamp)
		lo := Delete(a.Position, b.Position-a.Position, a.Author, a.Timestamp)
		return []Operation{hi, lo}
	}
}

// deleteVsDelete resolves overlap by shrinking a by the doubly deleted
// bytes and anchoring at the lower start
func deleteVsDelete(a, b Operation) Operation {
	switch {
	case a.Position >= b.end():
		a.Position -= b.Length
		return a
	case a.end() <= b.Position:
		return a
	default:
		ov := min(a.end(), b.end()) - max(a.Position, b.Position)
		return Delete(min(a.Position, b.Position), max(0, a.Length-ov), a.Author, a.Timestamp)
	}
}
