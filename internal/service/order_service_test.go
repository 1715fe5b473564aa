package service

import (
	"testing"

	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/stretchr/testify/assert"
)

func TestLabelContent(t *testing.T) {
	order := &entity.Order{
		Id:     348291047563264001,
		UserId: "u1",
		Status: constant.OrderStatusShipped,
		Awb:    "JP1234567890",
	}
	assert.Equal(t, "order:348291047563264001;awb:JP1234567890", LabelContent(order))
}
