// Package service implements the storefront operations: product
// catalog reads, the order lifecycle and the simulated payment flow.
// Every public operation returns a Result; errors never cross the
// service boundary.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"storefront-service/internal/apper"
)

// fetchErr collapses a multi-record fetch outcome into a single error.
func fetchErr(resp *apper.FetchResult, err error) error {
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("record api: %s", messageOr(resp.Message))
	}
	return nil
}

// recordErr collapses a single-record get outcome into a single error.
// An absent record counts as a failure.
func recordErr(resp *apper.RecordResult, err error) error {
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("record api: %s", messageOr(resp.Message))
	}
	if emptyRecord(resp.Data) {
		return fmt.Errorf("record api: no record returned")
	}
	return nil
}

// writeErr collapses a create/update outcome into a single error. The
// platform reports both an overall status and a per-record one; either
// failing fails the write.
func writeErr(resp *apper.WriteResult, err error) error {
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("record api: %s", messageOr(resp.Message))
	}
	if len(resp.Results) == 0 {
		return fmt.Errorf("record api: no result returned")
	}
	if !resp.Results[0].Success {
		return fmt.Errorf("record api: %s", messageOr(resp.Results[0].Message))
	}
	return nil
}

func emptyRecord(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func messageOr(msg string) string {
	if msg == "" {
		return "unspecified failure"
	}
	return msg
}
