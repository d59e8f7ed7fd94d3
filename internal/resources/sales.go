package resources

import (
	"html/template"
	"net/url"

	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/validation"
)

// DeliveryFee is the delivery price of one area.
type DeliveryFee struct {
	ID           int64   `json:"id"`
	NameEN       string  `json:"nameEN"`
	NameAR       string  `json:"nameAR"`
	Arrange      int     `json:"arrange"`
	Fee          float64 `json:"fee"`
	MinimumOrder float64 `json:"minimumOrder"`
	IsActive     bool    `json:"isActive"`
}

// DeliveryFeeForm edits a DeliveryFee.
type DeliveryFeeForm struct {
	basics
	Fee          float64
	MinimumOrder float64
	IsActive     bool
}

func (f *DeliveryFeeForm) Fields() []crud.Field {
	return append(f.fields(),
		crud.Field{Name: "fee", Label: "fee", Kind: crud.KindDecimal, Required: true, Step: "0.01"},
		crud.Field{Name: "minimumOrder", Label: "minimum_order", Kind: crud.KindDecimal, Step: "0.01"},
		crud.Field{Name: "isActive", Label: "active", Kind: crud.KindCheckbox},
	)
}

func (f *DeliveryFeeForm) Values() url.Values {
	v := url.Values{}
	f.values(v)
	v.Set("fee", crud.FormatFloat(f.Fee))
	v.Set("minimumOrder", crud.FormatFloat(f.MinimumOrder))
	crud.FormatBool(v, "isActive", f.IsActive)
	return v
}

func (f *DeliveryFeeForm) Decode(d *crud.Decoder) {
	f.decode(d)
	f.Fee = d.Float("fee")
	f.MinimumOrder = d.Float("minimumOrder")
	f.IsActive = d.Bool("isActive")
}

func (f *DeliveryFeeForm) Validate(v validation.Violations) {
	f.validate(v)
	validation.NonNegativeFloat("fee", f.Fee, v)
	validation.NonNegativeFloat("minimumOrder", f.MinimumOrder, v)
}

func (f *DeliveryFeeForm) Payload(id int64) any {
	return DeliveryFee{
		ID:           id,
		NameEN:       f.NameEN,
		NameAR:       f.NameAR,
		Arrange:      f.Arrange,
		Fee:          f.Fee,
		MinimumOrder: f.MinimumOrder,
		IsActive:     f.IsActive,
	}
}

// DeliveryFees is the delivery area screen.
func DeliveryFees() crud.Resource[DeliveryFee] {
	return crud.Resource[DeliveryFee]{
		Name:      "delivery-fees",
		Title:     "delivery_fees",
		Endpoints: crud.Standard("DeliveryFee"),
		ItemID:    func(d DeliveryFee) int64 { return d.ID },
		Columns: []crud.Column[DeliveryFee]{
			idColumn(func(d DeliveryFee) int64 { return d.ID }),
			textColumn("nameEN", "name_en", func(d DeliveryFee) string { return d.NameEN }),
			textColumn("nameAR", "name_ar", func(d DeliveryFee) string { return d.NameAR }),
			{Key: "fee", Header: "fee", ClassName: "num", Cell: func(d DeliveryFee) template.HTML { return crud.Decimal(d.Fee) }},
			{Key: "minimumOrder", Header: "minimum_order", ClassName: "num", Cell: func(d DeliveryFee) template.HTML {
				return crud.Decimal(d.MinimumOrder)
			}},
			{Key: "isActive", Header: "active", Cell: func(d DeliveryFee) template.HTML { return crud.Check(d.IsActive) }},
			actionsColumn[DeliveryFee](),
		},
		NewForm: func() crud.Form { return &DeliveryFeeForm{IsActive: true} },
		EditForm: func(d DeliveryFee) crud.Form {
			return &DeliveryFeeForm{
				basics:       newBasics(d.NameEN, d.NameAR, nil, nil, d.Arrange, false),
				Fee:          d.Fee,
				MinimumOrder: d.MinimumOrder,
				IsActive:     d.IsActive,
			}
		},
	}
}

// Order statuses, in their usual progression.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderPreparing  = "preparing"
	OrderDelivering = "delivering"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderStatuses are the status choices of the filter and the status form.
var OrderStatuses = []crud.Option{
	{Value: OrderPending, Label: "Pending", LabelAR: "قيد الانتظار"},
	{Value: OrderConfirmed, Label: "Confirmed", LabelAR: "مؤكد"},
	{Value: OrderPreparing, Label: "Preparing", LabelAR: "قيد التحضير"},
	{Value: OrderDelivering, Label: "Delivering", LabelAR: "قيد التوصيل"},
	{Value: OrderDelivered, Label: "Delivered", LabelAR: "تم التوصيل"},
	{Value: OrderCancelled, Label: "Cancelled", LabelAR: "ملغي"},
}

// ValidOrderStatus reports whether s is a known status.
func ValidOrderStatus(s string) bool {
	for _, o := range OrderStatuses {
		if o.Value == s {
			return true
		}
	}
	return false
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductNameEN string  `json:"productNameEN"`
	ProductNameAR string  `json:"productNameAR"`
	UnitNameEN    string  `json:"unitNameEN"`
	UnitNameAR    string  `json:"unitNameAR"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	Total         float64 `json:"total"`
}

// Order is a customer order. Orders are placed by the shop app; the
// dashboard only reads them and moves their status.
type Order struct {
	ID            int64       `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	CustomerID    int64       `json:"customerId"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	Address       string      `json:"address"`
	Status        string      `json:"status"`
	SubTotal      float64     `json:"subTotal"`
	DeliveryFee   float64     `json:"deliveryFee"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total"`
	CouponCode    string      `json:"couponCode,omitempty"`
	Note          *string     `json:"note"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedDate   string      `json:"createdDate"`
}

func viewColumn[T any](route string, id func(T) int64) crud.Column[T] {
	return crud.Column[T]{Key: crud.ActionsKey, Header: "actions", Cell: func(it T) template.HTML {
		return crud.Link(itemPath(route, id(it), ""), "›", "btn btn-sm")
	}}
}

func periodFilters() []crud.Filter {
	return []crud.Filter{
		{Param: "FromDate", Label: "from_date", Kind: crud.KindDate},
		{Param: "ToDate", Label: "to_date", Kind: crud.KindDate},
	}
}

// Orders is the order list; detail and status change are extra routes.
func Orders() crud.Resource[Order] {
	return crud.Resource[Order]{
		Name:      "orders",
		Title:     "orders",
		Endpoints: crud.Standard("Order"),
		ItemID:    func(o Order) int64 { return o.ID },
		Columns: []crud.Column[Order]{
			idColumn(func(o Order) int64 { return o.ID }),
			textColumn("orderNumber", "order_number", func(o Order) string { return o.OrderNumber }),
			textColumn("customer", "customer", func(o Order) string { return o.CustomerName }),
			textColumn("phone", "phone", func(o Order) string { return o.CustomerPhone }),
			{Key: "total", Header: "total", ClassName: "num", Cell: func(o Order) template.HTML { return crud.Decimal(o.Total) }},
			{Key: "status", Header: "status", Cell: func(o Order) template.HTML { return crud.Badge(o.Status) }},
			dateColumn("createdDate", "created_at", func(o Order) string { return o.CreatedDate }),
			viewColumn("orders", func(o Order) int64 { return o.ID }),
		},
		Filters: append([]crud.Filter{
			{Param: "Status", Label: "status", Kind: crud.KindSelect, Options: OrderStatuses},
		}, periodFilters()...),
		ReadOnly: true,
		NoDelete: true,
		Debounce: true,
		Toolbar: []crud.ToolbarLink{
			{Href: "/orders/export", Label: "export", Action: gate.ActionExport},
		},
	}
}

// Customer is a shop customer account.
type Customer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	IsBlocked   bool   `json:"isBlocked"`
	OrdersCount int    `json:"ordersCount"`
	CreatedDate string `json:"createdDate"`
}

var blockedOptions = []crud.Option{
	{Value: "false", Label: "Active", LabelAR: "نشط"},
	{Value: "true", Label: "Blocked", LabelAR: "محظور"},
}

// Customers is the customer list; detail and block are extra routes.
func Customers() crud.Resource[Customer] {
	return crud.Resource[Customer]{
		Name:      "customers",
		Title:     "customers",
		Endpoints: crud.Standard("Customer"),
		ItemID:    func(c Customer) int64 { return c.ID },
		Columns: []crud.Column[Customer]{
			idColumn(func(c Customer) int64 { return c.ID }),
			textColumn("name", "name", func(c Customer) string { return c.Name }),
			textColumn("phone", "phone", func(c Customer) string { return c.Phone }),
			textColumn("email", "email", func(c Customer) string { return c.Email }),
			{Key: "ordersCount", Header: "orders", ClassName: "num", Cell: func(c Customer) template.HTML {
				return crud.Int(int64(c.OrdersCount))
			}},
			{Key: "isBlocked", Header: "blocked", Cell: func(c Customer) template.HTML { return crud.Check(c.IsBlocked) }},
			dateColumn("createdDate", "created_at", func(c Customer) string { return c.CreatedDate }),
			viewColumn("customers", func(c Customer) int64 { return c.ID }),
		},
		Filters: []crud.Filter{
			{Param: "IsBlocked", Label: "blocked", Kind: crud.KindSelect, Options: blockedOptions},
		},
		ReadOnly: true,
		NoDelete: true,
		Debounce: true,
		Toolbar: []crud.ToolbarLink{
			{Href: "/customers/export", Label: "export", Action: gate.ActionExport},
		},
	}
}

// Complaint statuses.
const (
	ComplaintOpen     = "open"
	ComplaintResolved = "resolved"
)

// ComplaintStatuses are the complaint filter choices.
var ComplaintStatuses = []crud.Option{
	{Value: ComplaintOpen, Label: "Open", LabelAR: "مفتوحة"},
	{Value: ComplaintResolved, Label: "Resolved", LabelAR: "تم الحل"},
}

// Complaint is a message sent by a customer from the shop app.
type Complaint struct {
	ID            int64   `json:"id"`
	CustomerID    int64   `json:"customerId"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	OrderID       *int64  `json:"orderId"`
	Subject       string  `json:"subject"`
	Message       string  `json:"message"`
	Status        string  `json:"status"`
	Reply         *string `json:"reply"`
	CreatedDate   string  `json:"createdDate"`
	RepliedDate   *string `json:"repliedDate"`
}

// Complaints is the complaint list; detail and reply are extra routes.
func Complaints() crud.Resource[Complaint] {
	return crud.Resource[Complaint]{
		Name:      "complaints",
		Title:     "complaints",
		Endpoints: crud.Standard("Complaint"),
		ItemID:    func(c Complaint) int64 { return c.ID },
		Columns: []crud.Column[Complaint]{
			idColumn(func(c Complaint) int64 { return c.ID }),
			textColumn("customer", "customer", func(c Complaint) string { return c.CustomerName }),
			textColumn("subject", "subject", func(c Complaint) string { return c.Subject }),
			{Key: "status", Header: "status", Cell: func(c Complaint) template.HTML { return crud.Badge(c.Status) }},
			dateColumn("createdDate", "created_at", func(c Complaint) string { return c.CreatedDate }),
			viewColumn("complaints", func(c Complaint) int64 { return c.ID }),
		},
		Filters: append([]crud.Filter{
			{Param: "Status", Label: "status", Kind: crud.KindSelect, Options: ComplaintStatuses},
		}, periodFilters()...),
		ReadOnly: true,
		NoDelete: true,
	}
}

// Endpoints of the order, customer and complaint actions.
const (
	OrderChangeStatus = "/Order/ChangeStatus"
	CustomerBlock     = "/Customer/Block"
	ComplaintReply    = "/Complaint/Reply"
)

// StatusChange moves an order to a new status.
type StatusChange struct {
	ID     int64   `json:"id"`
	Status string  `json:"status"`
	Note   *string `json:"note"`
}

// DecodeStatusChange reads and validates the status form of order id.
func DecodeStatusChange(id int64, vals url.Values) (StatusChange, validation.Violations) {
	d := crud.NewDecoder(vals)
	sc := StatusChange{ID: id, Status: d.String("status"), Note: crud.Nullable(d.String("note"))}
	v := d.Violations()
	validation.Required("status", sc.Status, v)
	if sc.Status != "" && !ValidOrderStatus(sc.Status) {
		v.Add("status", "invalid_choice")
	}
	validation.MaxLen("note", crud.Deref(sc.Note), 500, v)
	return sc, v
}

// BlockChange blocks or unblocks a customer.
type BlockChange struct {
	ID        int64 `json:"id"`
	IsBlocked bool  `json:"isBlocked"`
}

// ReplyChange answers a complaint; Resolve closes it.
type ReplyChange struct {
	ID     int64  `json:"id"`
	Reply  string `json:"reply"`
	Status string `json:"status"`
}

// DecodeReply reads and validates the reply form of complaint id.
func DecodeReply(id int64, vals url.Values) (ReplyChange, validation.Violations) {
	d := crud.NewDecoder(vals)
	rc := ReplyChange{ID: id, Reply: d.String("reply"), Status: ComplaintOpen}
	if d.Bool("resolve") {
		rc.Status = ComplaintResolved
	}
	v := d.Violations()
	validation.Required("reply", rc.Reply, v)
	validation.MaxLen("reply", rc.Reply, 1000, v)
	return rc, v
}
