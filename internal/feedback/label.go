package feedback

// SpaceLabel stands in for a space so it stays visible in feedback.
const SpaceLabel = "␣"

// RuneLabel returns r as text, with spaces made visible.
func RuneLabel(r rune) string {
	if r == ' ' {
		return SpaceLabel
	}
	return string(r)
}

// Label is the short text shown for one aligned letter: the typed character
// for Correct and Wrong, "+ x" for an extra character and "? x" for a missing one.
func Label(l Letter) string {
	switch v := l.(type) {
	case Correct:
		return RuneLabel(v.Actual)
	case Wrong:
		return RuneLabel(v.Actual)
	case Missing:
		return "? " + RuneLabel(v.Expected)
	case Extra:
		return "+ " + RuneLabel(v.Actual)
	default:
		return ""
	}
}
