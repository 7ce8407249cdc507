package parsers

// ParseVote extracts the voted label from a Vote/Debate/Tournament reply
// (spec.md §4.4.2, §4.4.4, §4.4.11). The primary pattern is the last
// "VOTE:" line; the fallback is the last bare "Response X" token anywhere
// in the text; the default is "" (no vote), signalling the caller to drop
// this ballot from the tally.
func ParseVote(text string) (label string, method ParseMethod) {
	if v, ok := MatchPrefixLast(text, "VOTE"); ok {
		if tok := LastResponseToken(v); tok != "" {
			return tok, MatchedPrimary
		}
		// "VOTE: A" without the "Response" word still counts as primary.
		if tok := bareLetterToken(v); tok != "" {
			return tok, MatchedPrimary
		}
	}
	if tok := LastResponseToken(text); tok != "" {
		return tok, MatchedFallback
	}
	return "", MatchedDefault
}

// ParseTournamentWinner extracts a two-way winner from a judge reply
// (spec.md §4.4.11): primary is the last "WINNER:" line, fallback is the
// last bare "Response A|B" token, default is "" (triggering retry/random
// tie-break at the call site).
func ParseTournamentWinner(text string) (label string, method ParseMethod) {
	if v, ok := MatchPrefixLast(text, "WINNER"); ok {
		if tok := LastResponseToken(v); tok != "" {
			return tok, MatchedPrimary
		}
		if tok := bareLetterToken(v); tok != "" {
			return tok, MatchedPrimary
		}
	}
	if tok := LastResponseToken(text); tok != "" {
		return tok, MatchedFallback
	}
	return "", MatchedDefault
}

// bareLetterToken handles "VOTE: A" / "WINNER: B" style replies where the
// model dropped the "Response" word entirely.
func bareLetterToken(s string) string {
	s = NormalizeLine(s)
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z' {
		return "Response " + s
	}
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return "Response " + string(s[0]-32)
	}
	return ""
}
