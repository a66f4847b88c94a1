// Package schema resolves arbitrary input column names to the canonical
// transaction schema via priority-ordered alias lists.
package schema

// Canonical field names every downstream stage keys on.
const (
	FieldDate           = "date"
	FieldOrderID        = "order_id"
	FieldCustomerID     = "customer_id"
	FieldRevenue        = "revenue"
	FieldCost           = "cost"
	FieldChannel        = "channel"
	FieldRegion         = "region"
	FieldCategory       = "category"
	FieldDevice         = "device"
	FieldMarketingSpend = "marketing_spend"
	FieldYearMonth      = "year_month"
)

// Schema declares the canonical fields and the source spellings that map to
// them. Field order is binding order: required fields resolve before optional
// ones, and within a field the alias list is scanned in declared priority.
type Schema struct {
	Required []string
	Optional []string
	Aliases  map[string][]string
}

// Default returns the stock commerce schema. Callers get a fresh copy each
// time so per-run customization never leaks into other runs.
func Default() Schema {
	return Schema{
		Required: []string{FieldDate, FieldOrderID, FieldCustomerID, FieldRevenue},
		Optional: []string{FieldCost, FieldChannel, FieldRegion, FieldCategory, FieldDevice, FieldMarketingSpend},
		Aliases: map[string][]string{
			FieldDate: {
				"date", "order_date", "purchase_date", "transaction_date",
				"created_at", "created_date", "sale_date", "invoice_date",
				"dt", "dates",
			},
			FieldOrderID: {
				"order_id", "orderid", "order_number", "order_no",
				"transaction_id", "txn_id", "invoice_id", "id",
			},
			FieldCustomerID: {
				"customer_id", "customerid", "cust_id", "custid",
				"client_id", "user_id", "userid", "buyer_id",
			},
			FieldRevenue: {
				"revenue", "sales", "amount", "total_amount", "order_value",
				"total_sales", "total_revenue", "sale_amount", "gmv",
				"gross_revenue", "net_revenue", "price", "total_price",
				"order_amount", "transaction_amount",
			},
			FieldCost: {
				"cost", "total_cost", "cogs", "cost_of_goods",
				"expense", "product_cost",
			},
			FieldChannel: {
				"channel", "source", "traffic_source", "acquisition_channel",
				"utm_source", "marketing_channel", "medium",
			},
			FieldRegion: {
				"region", "location", "area", "zone", "city",
				"state", "country", "geography", "geo",
			},
			FieldCategory: {
				"category", "product_category", "item_category",
				"department", "product_type", "type", "segment",
			},
			FieldDevice: {
				"device", "device_type", "platform", "device_category",
			},
			FieldMarketingSpend: {
				"marketing_spend", "ad_spend", "spend", "marketing_cost",
				"advertising_cost", "campaign_cost", "media_spend",
			},
		},
	}
}

// Fields returns all canonical fields in binding order
func (s Schema) Fields() []string {
	out := make([]string, 0, len(s.Required)+len(s.Optional))
	out = append(out, s.Required...)
	out = append(out, s.Optional...)
	return out
}

// AliasesFor returns the priority-ordered alias list for a canonical field.
// A field with no declared aliases matches only its own name.
func (s Schema) AliasesFor(field string) []string {
	if aliases, ok := s.Aliases[field]; ok {
		return aliases
	}
	return []string{field}
}

// TextFields returns the categorical fields subject to text normalization
func TextFields() []string {
	return []string{FieldChannel, FieldRegion, FieldCategory, FieldDevice}
}

// NumericFields returns the fields subject to numeric normalization
func NumericFields() []string {
	return []string{FieldRevenue, FieldCost, FieldMarketingSpend}
}
