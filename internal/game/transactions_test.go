package game

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionLogNewestFirst(t *testing.T) {
	l := NewTransactionLog(quartz.NewMock(t))
	l.Add(Record{Kind: TxBuy, Description: "first"})
	l.Add(Record{Kind: TxRent, Description: "second"})
	l.Add(Record{Kind: TxLoan, Description: "third"})

	require.Equal(t, 3, l.Len())
	records := l.Records()
	assert.Equal(t, "third", records[0].Description)
	assert.Equal(t, "first", records[2].Description)
}

func TestTransactionLogExportOldestFirst(t *testing.T) {
	l := NewTransactionLog(quartz.NewMock(t))
	l.Add(Record{Kind: TxBuy, Description: "first", PlayerID: intPtr(1), Amount: intPtr(500)})
	l.Add(Record{Kind: TxRent, Description: "second"})

	var buf bytes.Buffer
	require.NoError(t, l.Export(&buf))

	var exported []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	require.Len(t, exported, 2)
	assert.Equal(t, "first", exported[0].Description)
	assert.Equal(t, TxBuy, exported[0].Kind)
	require.NotNil(t, exported[0].Amount)
	assert.Equal(t, 500, *exported[0].Amount)
	assert.Equal(t, "second", exported[1].Description)
	assert.Nil(t, exported[1].PlayerID)
}

func TestTransactionLogReplay(t *testing.T) {
	l := NewTransactionLog(quartz.NewMock(t))
	l.Add(Record{Kind: TxBuy, Description: "first"})
	l.Add(Record{Kind: TxRent, Description: "second"})

	var order []string
	l.Replay(func(r Record) { order = append(order, r.Description) })
	assert.Equal(t, []string{"first", "second"}, order)
}
