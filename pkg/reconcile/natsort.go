package reconcile

// NaturalCompare compares two strings with numeric awareness, so that
// "BH-2" sorts before "BH-10". Runs of ASCII digits are compared by value;
// everything else is compared byte-wise. When two digit runs are numerically
// equal, the shorter run (fewer leading zeros) sorts first so the ordering
// stays total.
func NaturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]

		if isDigit(ca) && isDigit(cb) {
			ia, za := digitRun(a, i)
			jb, zb := digitRun(b, j)
			na, nb := a[za:ia], b[zb:jb]

			// Compare trimmed digit runs numerically: longer run wins,
			// then lexicographic on equal length.
			switch {
			case len(na) != len(nb):
				if len(na) < len(nb) {
					return -1
				}
				return 1
			case na != nb:
				if na < nb {
					return -1
				}
				return 1
			}

			// Equal values: fewer leading zeros first.
			la, lb := ia-i, jb-j
			if la != lb {
				if la < lb {
					return -1
				}
				return 1
			}

			i, j = ia, jb
			continue
		}

		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}

	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// digitRun returns the end of the digit run starting at position i, and the
// start of the run with leading zeros skipped (clamped so an all-zero run
// keeps its last digit).
func digitRun(s string, i int) (end, trimmed int) {
	end = i
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	trimmed = i
	for trimmed < end-1 && s[trimmed] == '0' {
		trimmed++
	}
	return end, trimmed
}
