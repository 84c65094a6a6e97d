package qskema

// IssueAt creates a field-level Issue with the given code, message and params.
func IssueAt(field, code, msg string, params map[string]any) Issue {
	return Issue{Path: []string{field}, Code: code, Message: msg, Params: params}
}
