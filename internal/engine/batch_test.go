package engine

import (
	"context"
	"errors"
	"testing"
)

func TestConvertBatch(t *testing.T) {
	// 1. Setup: mix of valid and invalid requests
	reqs := []Request{
		{Value: 1, From: "m", To: "cm", Domain: Length},
		{Value: 1, From: "xx", To: "m", Domain: Length},
		{Value: 0, From: "C", To: "F", Domain: Temperature},
		{Value: 1, From: "m", To: "cm", Domain: "area"},
		{Value: 2, From: "kg", To: "g", Domain: Weight},
	}

	// 2. Run with more workers than items
	results, err := ConvertBatch(context.Background(), reqs, 16)
	if err != nil {
		t.Fatalf("Expected no batch error, got %v", err)
	}

	// 3. Assertions
	if len(results) != len(reqs) {
		t.Fatalf("Expected %d results, got %d", len(reqs), len(results))
	}
	for i := range reqs {
		if results[i].Request != reqs[i] {
			t.Errorf("Result %d out of order: %+v", i, results[i].Request)
		}
	}
	if results[0].Err != nil || !approxEqual(results[0].Output, 100) {
		t.Errorf("Row 0: Expected 100, got %v (%v)", results[0].Output, results[0].Err)
	}
	if !errors.Is(results[1].Err, ErrInvalidUnit) {
		t.Errorf("Row 1: Expected invalid-unit, got %v", results[1].Err)
	}
	if results[2].Output != 32 {
		t.Errorf("Row 2: Expected 32, got %v", results[2].Output)
	}
	if !errors.Is(results[3].Err, ErrInvalidDomain) {
		t.Errorf("Row 3: Expected invalid-domain, got %v", results[3].Err)
	}
	if !approxEqual(results[4].Output, 2000) {
		t.Errorf("Row 4: Expected 2000, got %v", results[4].Output)
	}
	if Failed(results) != 2 {
		t.Errorf("Expected 2 failures, got %d", Failed(results))
	}
}

func TestConvertBatchDefaultWorkers(t *testing.T) {
	reqs := make([]Request, 1000)
	for i := range reqs {
		reqs[i] = Request{Value: float64(i), From: "km", To: "m", Domain: Length}
	}
	results, err := ConvertBatch(context.Background(), reqs, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		if r.Err != nil || !approxEqual(r.Output, float64(i)*1000) {
			t.Fatalf("Row %d: Expected %v, got %v (%v)", i, float64(i)*1000, r.Output, r.Err)
		}
	}
}

func TestConvertBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reqs := []Request{
		{Value: 1, From: "m", To: "cm", Domain: Length},
		{Value: 2, From: "m", To: "cm", Domain: Length},
	}
	results, err := ConvertBatch(ctx, reqs, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected batch error context.Canceled, got %v", err)
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("Row %d: Expected context.Canceled, got %v", i, r.Err)
		}
		if r.Request != reqs[i] {
			t.Errorf("Row %d: Expected request to be kept, got %+v", i, r.Request)
		}
	}
}

func TestConvertBatchEmpty(t *testing.T) {
	got, err := ConvertBatch(context.Background(), nil, 4)
	if err != nil || len(got) != 0 {
		t.Errorf("Expected no results, got %d (%v)", len(got), err)
	}
}
