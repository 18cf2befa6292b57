package utils

import "strings"

// ConvertShellOutputs splits shell output string into a slice of strings, one per line
func ConvertShellOutputs(outputs string) []string {
	var result []string
	if len(outputs) == 0 {
		return result
	}

	start := 0
	for _, index := range GetAllIndex(outputs, "\n") {
		result = append(result, strings.TrimSuffix(outputs[start:index], "\r"))
		start = index + 1
	}

	if !strings.HasSuffix(outputs, "\n") {
		result = append(result, strings.TrimSuffix(outputs[strings.LastIndex(outputs, "\n")+1:], "\r"))
	}

	return result
}

// GetAllIndex returns all indices of the substr in the given string
func GetAllIndex(s string, substr string) []int {
	var indexes []int

	start := 0
	end := len(s)

	for start < end {
		if index := strings.Index(s[start:end], substr); index > -1 {
			indexes = append(indexes, start+index)
			start = start + index + len(substr)
		} else {
			break
		}
	}

	return indexes
}
