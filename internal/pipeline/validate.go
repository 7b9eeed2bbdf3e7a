package pipeline

import (
	"orders-revenue-pipeline/internal/model"
)

// Rejection reasons, named after the first rule that fires for a row.
const (
	ReasonNullOrderID      = "null_order_id"
	ReasonNullCustomerID   = "null_customer_id"
	ReasonNullOrderDate    = "null_order_date"
	ReasonNullStatus       = "null_status"
	ReasonNullQuantity     = "null_quantity"
	ReasonInvalidUnitPrice = "invalid_unit_price"
	ReasonOrphanItem       = "orphan_item"
)

type orderRule struct {
	reason string
	fails  func(model.Order) bool
}

// Order rules in fixed priority order; the first failing rule supplies the
// row's single rejection reason.
var orderRules = []orderRule{
	{ReasonNullOrderID, func(o model.Order) bool { return !o.OrderID.Valid }},
	{ReasonNullCustomerID, func(o model.Order) bool { return !o.CustomerID.Valid }},
	{ReasonNullOrderDate, func(o model.Order) bool { return !o.OrderDate.Valid }},
	{ReasonNullStatus, func(o model.Order) bool { return !o.Status.Valid }},
}

// ValidateOrders partitions deduplicated orders into valid and rejected.
// Validation never fails: every row is classified, none dropped.
func ValidateOrders(orders []model.Order, report *model.QualityReport) ([]model.Order, []model.RejectedOrder) {
	valid := make([]model.Order, 0, len(orders))
	var rejected []model.RejectedOrder

	for _, o := range orders {
		reason := ""
		for _, rule := range orderRules {
			if rule.fails(o) {
				reason = rule.reason
				break
			}
		}
		if reason == "" {
			valid = append(valid, o)
			continue
		}
		rejected = append(rejected, model.RejectedOrder{Order: o, Reason: reason})
		report.AddOrderRejection(o.OrderID, reason)
	}

	report.SetOrderValidation(len(valid), len(rejected))
	return valid, rejected
}

// ValidOrderIDs collects the set of order IDs that survived validation,
// used for the item orphan check.
func ValidOrderIDs(orders []model.Order) map[string]struct{} {
	ids := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if o.OrderID.Valid {
			ids[o.OrderID.String] = struct{}{}
		}
	}
	return ids
}

// ValidateItems partitions cleaned items into valid and rejected. Rules fire
// in fixed order per row: null quantity, then invalid unit price, then the
// orphan check against the valid order-ID set. The orphan check only assigns
// a reason when no earlier rule fired, and the raw orphan count tracks
// exactly those rows.
func ValidateItems(items []model.OrderItem, validIDs map[string]struct{}, report *model.QualityReport) ([]model.OrderItem, []model.RejectedItem) {
	valid := make([]model.OrderItem, 0, len(items))
	var rejected []model.RejectedItem
	orphans := 0

	for _, it := range items {
		reason := ""
		switch {
		case !it.Quantity.Valid:
			reason = ReasonNullQuantity
		case !it.UnitPrice.Valid || !it.UnitPrice.Decimal.IsPositive():
			reason = ReasonInvalidUnitPrice
		}
		if reason == "" && !isKnownOrder(it, validIDs) {
			reason = ReasonOrphanItem
			orphans++
		}
		if reason == "" {
			valid = append(valid, it)
			continue
		}
		rejected = append(rejected, model.RejectedItem{OrderItem: it, Reason: reason})
		report.AddItemRejection(it.ItemID, it.OrderID, reason)
	}

	report.SetItemValidation(len(valid), len(rejected), orphans)
	return valid, rejected
}

func isKnownOrder(it model.OrderItem, validIDs map[string]struct{}) bool {
	if !it.OrderID.Valid {
		return false
	}
	_, ok := validIDs[it.OrderID.String]
	return ok
}
