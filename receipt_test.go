package judokit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hugochinchilla79/judokit_sdk/models"
)

func TestReceiptQuery(t *testing.T) {
	session := newRecordingSession()

	q, err := NewReceiptQuery(session, "")
	require.NoError(t, err)
	require.Equal(t, "transactions", q.Path())

	require.NoError(t, q.List(context.Background(), &models.Pagination{PageSize: 15, Offset: 44, Sort: models.SortAscending}, nil))
	require.Equal(t, "transactions?pageSize=15&offset=44&sort=time-ascending", session.last().path)

	q, err = NewReceiptQuery(session, testReceiptID)
	require.NoError(t, err)
	require.NoError(t, q.List(context.Background(), nil, nil))
	require.Equal(t, "GET", session.last().method)
	require.Equal(t, "transactions/"+testReceiptID, session.last().path)
}

func TestReceiptQuery_InvalidReceiptID(t *testing.T) {
	_, err := NewReceiptQuery(newRecordingSession(), "1000000009")
	require.True(t, HasCode(err, CodeLuhnValidation))
}

func TestReceiptQuery_NegativePageSize(t *testing.T) {
	q, err := NewReceiptQuery(newRecordingSession(), "")
	require.NoError(t, err)
	require.True(t, HasCode(q.List(context.Background(), &models.Pagination{PageSize: -1}, nil), CodeParamError))
}
