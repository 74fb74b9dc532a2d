package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/order"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate root.
// The manual payment accumulators live in their own columns so the
// repository can increment them with a single atomic UPDATE.
type OrderModel struct {
	AggregateModel
	OrderNo  string `gorm:"type:varchar(50);not null;uniqueIndex"`
	SerialNo string `gorm:"type:varchar(20);uniqueIndex:idx_orders_serial_no,where:serial_no <> ''"`

	AlbumName   string `gorm:"type:varchar(200);not null"`
	PaperType   string `gorm:"type:varchar(50);not null"`
	AlbumSize   string `gorm:"type:varchar(50);not null"`
	DesignPoint string `gorm:"type:varchar(100)"`
	BagType     string `gorm:"type:varchar(100)"`
	SheetCount  int64

	DeliveryOption  order.DeliveryOption `gorm:"type:varchar(20);not null"`
	DeliveryAddress valueobject.Address  `gorm:"type:jsonb;default:'{}'"`

	OrderDate    time.Time `gorm:"not null;index"`
	DeliveryDate *time.Time

	Email  string `gorm:"type:varchar(200);index"`
	Mobile string `gorm:"type:varchar(20);index"`
	Notes  string `gorm:"type:text"`

	Quantity       int64           `gorm:"not null"`
	PaperRate      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BindingRate    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BagRate        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DeliveryCharge decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Tax            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	AdvanceAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CashPayment       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CounterUPIPayment decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentDate       *time.Time

	PaymentStatus order.PaymentStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	PaymentInfo   order.PaymentInfo   `gorm:"type:jsonb;default:'{}'"`

	OrderStatus          order.OrderStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	OrderStatusUpdatedAt *time.Time

	UploadedFiles order.FileRefs `gorm:"type:jsonb;default:'[]'"`

	Active bool `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		OrderNo:  m.OrderNo,
		SerialNo: m.SerialNo,
		Product: order.ProductSpec{
			AlbumName:   m.AlbumName,
			PaperType:   m.PaperType,
			AlbumSize:   m.AlbumSize,
			DesignPoint: m.DesignPoint,
			BagType:     m.BagType,
			SheetCount:  m.SheetCount,
		},
		DeliveryOption:  m.DeliveryOption,
		DeliveryAddress: m.DeliveryAddress,
		OrderDate:       m.OrderDate,
		DeliveryDate:    m.DeliveryDate,
		Email:           m.Email,
		Mobile:          m.Mobile,
		Notes:           m.Notes,
		PriceDetails: order.PriceDetails{
			Quantity:          m.Quantity,
			PaperRate:         m.PaperRate,
			BindingRate:       m.BindingRate,
			BagRate:           m.BagRate,
			DeliveryCharge:    m.DeliveryCharge,
			Subtotal:          m.Subtotal,
			Tax:               m.Tax,
			Total:             m.Total,
			AdvanceAmount:     m.AdvanceAmount,
			CashPayment:       m.CashPayment,
			CounterUPIPayment: m.CounterUPIPayment,
			PaymentDate:       m.PaymentDate,
		},
		PaymentStatus:        m.PaymentStatus,
		PaymentInfo:          m.PaymentInfo,
		OrderStatus:          m.OrderStatus,
		OrderStatusUpdatedAt: m.OrderStatusUpdatedAt,
		UploadedFiles:        m.UploadedFiles,
		Active:               m.Active,
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)
	return o
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNo = o.OrderNo
	m.SerialNo = o.SerialNo
	m.AlbumName = o.Product.AlbumName
	m.PaperType = o.Product.PaperType
	m.AlbumSize = o.Product.AlbumSize
	m.DesignPoint = o.Product.DesignPoint
	m.BagType = o.Product.BagType
	m.SheetCount = o.Product.SheetCount
	m.DeliveryOption = o.DeliveryOption
	m.DeliveryAddress = o.DeliveryAddress
	m.OrderDate = o.OrderDate
	m.DeliveryDate = o.DeliveryDate
	m.Email = o.Email
	m.Mobile = o.Mobile
	m.Notes = o.Notes
	m.Quantity = o.PriceDetails.Quantity
	m.PaperRate = o.PriceDetails.PaperRate
	m.BindingRate = o.PriceDetails.BindingRate
	m.BagRate = o.PriceDetails.BagRate
	m.DeliveryCharge = o.PriceDetails.DeliveryCharge
	m.Subtotal = o.PriceDetails.Subtotal
	m.Tax = o.PriceDetails.Tax
	m.Total = o.PriceDetails.Total
	m.AdvanceAmount = o.PriceDetails.AdvanceAmount
	m.CashPayment = o.PriceDetails.CashPayment
	m.CounterUPIPayment = o.PriceDetails.CounterUPIPayment
	m.PaymentDate = o.PriceDetails.PaymentDate
	m.PaymentStatus = o.PaymentStatus
	m.PaymentInfo = o.PaymentInfo
	m.OrderStatus = o.OrderStatus
	m.OrderStatusUpdatedAt = o.OrderStatusUpdatedAt
	m.UploadedFiles = o.UploadedFiles
	m.Active = o.Active
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// SerialCounterModel holds the last allocated sequence per calendar
// year. Year is the primary key so the row can be updated with a
// single guarded increment.
type SerialCounterModel struct {
	Year      int       `gorm:"primaryKey"`
	LastSeq   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SerialCounterModel) TableName() string {
	return "serial_counters"
}
