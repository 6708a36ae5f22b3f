package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusPaid, StatusShipped, true},
		{StatusPaid, StatusCanceled, true},
		{StatusPaid, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCanceled, false},
		{StatusDelivered, StatusCanceled, false},
		{StatusCanceled, StatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range []OrderStatus{StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCanceled} {
		assert.True(t, IsValidStatus(status))
	}
	assert.False(t, IsValidStatus(OrderStatus("SHIPPING")))
	assert.False(t, IsValidStatus(OrderStatus("")))
}
