package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/json"

	"powerview/internal/table"
)

// jsonRecords turns a table into one record per row, keyed by field name. A
// single-value table without values still yields one record of empty strings.
func jsonRecords(tableValues table.TableValues) []map[string]string {
	records := []map[string]string{}
	if len(tableValues.Fields) == 0 {
		return records
	}
	numRecords := len(tableValues.Fields[0].Values)
	if numRecords == 0 && !tableValues.HasRows {
		record := map[string]string{}
		for _, field := range tableValues.Fields {
			record[field.Name] = ""
		}
		return append(records, record)
	}
	for i := range numRecords {
		record := make(map[string]string, len(tableValues.Fields))
		for _, field := range tableValues.Fields {
			record[field.Name] = field.Values[i]
		}
		records = append(records, record)
	}
	return records
}

func createJsonReport(allTableValues []table.TableValues) ([]byte, error) {
	out := make(map[string][]map[string]string, len(allTableValues))
	for _, tableValues := range allTableValues {
		out[tableValues.Name] = jsonRecords(tableValues)
	}
	return json.MarshalIndent(out, "", " ")
}
