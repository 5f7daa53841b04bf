package tools

import (
	"database/sql"
	"fmt"
	"strconv"
)

// scanRows reads every remaining row into a map keyed by column name.
// []byte values are coerced to string so results marshal as JSON text
// rather than base64. An empty result set yields an empty slice.
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns error: %v", err)
	}

	results := []map[string]interface{}{}
	for rows.Next() {
		vals := make([]interface{}, len(columns))
		valPtrs := make([]interface{}, len(columns))
		for i := range vals {
			valPtrs[i] = &vals[i]
		}

		if err := rows.Scan(valPtrs...); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			switch v := vals[i].(type) {
			case []byte:
				row[col] = string(v)
			default:
				row[col] = v
			}
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// asString renders a scanned driver value as text.
func asString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// asInt converts a scanned driver value to an int. MySQL delivers
// Seq_in_index as an integer, but some drivers hand it back as text.
func asInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int32:
		return int(val), true
	case int64:
		return int(val), true
	case uint64:
		return int(val), true
	case float64:
		return int(val), true
	case []byte:
		n, err := strconv.Atoi(string(val))
		return n, err == nil
	case string:
		n, err := strconv.Atoi(val)
		return n, err == nil
	default:
		return 0, false
	}
}
