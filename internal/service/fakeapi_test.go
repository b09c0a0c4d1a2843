package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"storefront-service/internal/apper"
	"storefront-service/internal/models"
)

// fakeAPI is an in-memory stand-in for the record platform. It honors
// the subset of query semantics the services rely on: EqualTo and
// Contains filters, single-field sorting and paging.
type fakeAPI struct {
	products    []map[string]any
	orders      []map[string]any
	categories  []map[string]any
	nextOrderID int
	failFetch   bool
	failWrite   bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextOrderID: 1}
}

func (f *fakeAPI) table(name string) []map[string]any {
	switch name {
	case models.TableProducts:
		return f.products
	case models.TableOrders:
		return f.orders
	case models.TableCategories:
		return f.categories
	}
	return nil
}

func (f *fakeAPI) FetchRecords(_ context.Context, table string, params apper.FetchParams) (*apper.FetchResult, error) {
	if f.failFetch {
		return &apper.FetchResult{Success: false, Message: "backend down"}, nil
	}

	records := make([]map[string]any, 0)
	for _, rec := range f.table(table) {
		if matchesAll(rec, params.Where) {
			records = append(records, rec)
		}
	}

	sortRecords(records, params.OrderBy)

	if params.Paging != nil {
		start := params.Paging.Offset
		if start > len(records) {
			start = len(records)
		}
		end := start + params.Paging.Limit
		if end > len(records) {
			end = len(records)
		}
		records = records[start:end]
	}

	data := make([]json.RawMessage, len(records))
	for i, rec := range records {
		data[i], _ = json.Marshal(rec)
	}
	return &apper.FetchResult{Success: true, Data: data}, nil
}

func (f *fakeAPI) GetRecordByID(_ context.Context, table string, id int, _ apper.FetchParams) (*apper.RecordResult, error) {
	if f.failFetch {
		return &apper.RecordResult{Success: false, Message: "backend down"}, nil
	}

	for _, rec := range f.table(table) {
		if recordID(rec) == id {
			data, _ := json.Marshal(rec)
			return &apper.RecordResult{Success: true, Data: data}, nil
		}
	}
	return &apper.RecordResult{Success: false, Message: "record not found"}, nil
}

func (f *fakeAPI) CreateRecord(_ context.Context, table string, records []map[string]any) (*apper.WriteResult, error) {
	if f.failWrite {
		return &apper.WriteResult{Success: false, Message: "backend down"}, nil
	}
	if table != models.TableOrders {
		return &apper.WriteResult{Success: false, Message: fmt.Sprintf("table %s is read-only", table)}, nil
	}

	results := make([]apper.OpResult, 0, len(records))
	for _, rec := range records {
		stored := make(map[string]any, len(rec)+1)
		for k, v := range rec {
			stored[k] = v
		}
		stored["Id"] = f.nextOrderID
		f.nextOrderID++
		f.orders = append(f.orders, stored)

		data, _ := json.Marshal(stored)
		results = append(results, apper.OpResult{Success: true, Data: data})
	}
	return &apper.WriteResult{Success: true, Results: results}, nil
}

func (f *fakeAPI) UpdateRecord(_ context.Context, table string, records []map[string]any) (*apper.WriteResult, error) {
	if f.failWrite {
		return &apper.WriteResult{Success: false, Message: "backend down"}, nil
	}

	results := make([]apper.OpResult, 0, len(records))
	for _, rec := range records {
		id := recordID(rec)
		updated := false
		for _, stored := range f.table(table) {
			if recordID(stored) != id {
				continue
			}
			for k, v := range rec {
				if k != "Id" {
					stored[k] = v
				}
			}
			data, _ := json.Marshal(stored)
			results = append(results, apper.OpResult{Success: true, Data: data})
			updated = true
			break
		}
		if !updated {
			results = append(results, apper.OpResult{Success: false, Message: "record not found"})
		}
	}
	return &apper.WriteResult{Success: true, Results: results}, nil
}

func recordID(rec map[string]any) int {
	switch v := rec["Id"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func matchesAll(rec map[string]any, where []apper.Where) bool {
	for _, w := range where {
		if !matches(rec, w) {
			return false
		}
	}
	return true
}

func matches(rec map[string]any, w apper.Where) bool {
	if len(w.Values) == 0 {
		return true
	}
	value := fieldValue(rec, w.FieldName)

	switch w.Operator {
	case apper.OpEqualTo:
		return fmt.Sprintf("%v", value) == fmt.Sprintf("%v", w.Values[0])
	case apper.OpContains:
		want := strings.ToLower(fmt.Sprintf("%v", w.Values[0]))
		return strings.Contains(strings.ToLower(fmt.Sprintf("%v", value)), want)
	}
	return false
}

// fieldValue resolves a field for filtering and sorting, unwrapping
// category references to their display name.
func fieldValue(rec map[string]any, field string) any {
	v := rec[field]
	if ref, isRef := v.(map[string]any); isRef {
		return ref["Name"]
	}
	return v
}

func sortRecords(records []map[string]any, orderBy []apper.OrderBy) {
	if len(orderBy) == 0 {
		return
	}
	ob := orderBy[0]

	sort.SliceStable(records, func(i, j int) bool {
		a := fieldValue(records[i], ob.FieldName)
		b := fieldValue(records[j], ob.FieldName)

		var less bool
		af, aNum := a.(float64)
		bf, bNum := b.(float64)
		if aNum && bNum {
			less = af < bf
		} else {
			less = fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
		}

		if ob.SortType == apper.SortDesc {
			return !less && a != b
		}
		return less
	})
}

func productRecord(id int, name string, price float64, category string, extra map[string]any) map[string]any {
	rec := map[string]any{
		"Id":      float64(id),
		"name_c":  name,
		"price_c": price,
	}
	if category != "" {
		rec["category_c"] = map[string]any{"Name": category}
	}
	for k, v := range extra {
		rec[k] = v
	}
	return rec
}
