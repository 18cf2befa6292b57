package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wxnacy/wgo/arrays"
)

// PrettyPrintJSON for debug
func PrettyPrintJSON(w io.Writer, v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to generate json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", string(prettyJSON))
	return err
}

// AddUniqueStringItem add a string from a slice without duplicate
func AddUniqueStringItem(items []string, itemToAdd string) []string {
	if arrays.ContainsString(items, itemToAdd) > -1 {
		return items
	}
	return append(items, itemToAdd)
}

// SplitList splits a comma separated list, trims every item and drops empty
// and duplicated ones, e.g. "loop, nvme,,loop" => [loop nvme]
func SplitList(list string) []string {
	var result []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = AddUniqueStringItem(result, item)
		}
	}
	return result
}
