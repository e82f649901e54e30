package helpdex

// EstimateTokens estimates the token count of text as ceil(len/4). This is a
// cheap heuristic, not a true tokenizer; four characters per token is a
// reasonable average for English prose and keeps chunking free of model
// dependencies.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
