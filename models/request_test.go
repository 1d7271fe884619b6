package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReference(t *testing.T) {
	ref, err := NewReference("consumer", "payment", map[string]string{"k": "v"})
	require.NoError(t, err)
	require.Equal(t, "consumer", ref.ConsumerReference)
	require.Equal(t, "payment", ref.PaymentReference)

	ref, err = NewReference("", "payment", nil)
	require.ErrorIs(t, err, ErrConsumerReferenceRequired)
	require.Nil(t, ref)
}

func TestNewReferenceWithUUID(t *testing.T) {
	a, err := NewReferenceWithUUID("consumer")
	require.NoError(t, err)
	b, err := NewReferenceWithUUID("consumer")
	require.NoError(t, err)
	require.Len(t, a.PaymentReference, 36)
	require.NotEqual(t, a.PaymentReference, b.PaymentReference)

	_, err = NewReferenceWithUUID("")
	require.ErrorIs(t, err, ErrConsumerReferenceRequired)
}

func TestPaginationQuery(t *testing.T) {
	require.Equal(t, "pageSize=15&offset=44&sort=time-descending", Pagination{PageSize: 15, Offset: 44}.Query())
	require.Equal(t, "pageSize=10&offset=0&sort=time-ascending", Pagination{PageSize: 10, Sort: SortAscending}.Query())
}

func TestPKPaymentToken(t *testing.T) {
	tok, err := PKPayment{PaymentNetwork: "MasterCard", PaymentData: []byte(`{"data":"abc"}`)}.Token()
	require.NoError(t, err)
	inner := tok["token"].(map[string]any)
	require.Equal(t, "MasterCard", inner["paymentNetwork"])
	require.Equal(t, map[string]any{"data": "abc"}, inner["paymentData"])

	_, err = PKPayment{PaymentData: []byte(`{`)}.Token()
	require.Error(t, err)
}
