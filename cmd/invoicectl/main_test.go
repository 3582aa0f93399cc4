package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicegate/internal/domain"
	"invoicegate/internal/validator"
)

const passingExtraction = "```json\n" + `{
  "invoice_number": "NPCG-2024-001",
  "vendor": "Nexus Path Consulting Group LLC",
  "invoice_date": "2024-01-01",
  "due_date": "2024-01-31",
  "currency": "USD",
  "subtotal": "$29,570.50",
  "tax": 2624.38,
  "total": 32194.88,
  "summary": "Advisory hours at $350.00 per hour and a flat $8,500 workshop fee."
}` + "\n```"

func TestVerify_Passing(t *testing.T) {
	var out bytes.Buffer
	err := verify(&out, passingExtraction, validator.DefaultExpectations(), true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "NPCG-2024-001")
}

func TestVerify_StrictFailure(t *testing.T) {
	raw := `{"vendor": "Someone Else", "total": 10}`

	var out bytes.Buffer
	err := verify(&out, raw, validator.DefaultExpectations(), true)
	assert.ErrorIs(t, err, errChecksFailed)
	assert.NotEmpty(t, out.String())

	out.Reset()
	assert.NoError(t, verify(&out, raw, validator.DefaultExpectations(), false))
}

func TestVerify_NoJSON(t *testing.T) {
	var out bytes.Buffer
	err := verify(&out, "the model refused", validator.DefaultExpectations(), false)
	assert.ErrorIs(t, err, domain.ErrNoJSONFound)
	assert.Empty(t, out.String())
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extracted.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"total": 1}`), 0o600))

	got, err := readInput(nil, path)
	require.NoError(t, err)
	assert.Equal(t, `{"total": 1}`, got)

	got, err = readInput(bytes.NewBufferString("from stdin"), "-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	_, err = readInput(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPrintSweep(t *testing.T) {
	id := uuid.New()
	var out bytes.Buffer
	printSweep(&out, &domain.CheckHistoryEntry{
		CheckedAt:         time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC),
		InvoicesFound:     2,
		InvoicesProcessed: 1,
		JobIDs:            []uuid.UUID{id},
		Errors:            []string{"PDF too large: scan.pdf"},
	})

	s := out.String()
	assert.Contains(t, s, "Checked mailbox: found 2 invoice(s), processed 1")
	assert.Contains(t, s, id.String())
	assert.Contains(t, s, "PDF too large: scan.pdf")
}
