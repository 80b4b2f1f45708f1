package dataset

// Join left-joins sales to customers on CustomerID. Output order follows
// sales. Sales whose customer is missing come back with Matched=false.
func Join(sales []SalesEvent, customers []Customer) []Row {
	byID := make(map[int]Customer, len(customers))
	for _, c := range customers {
		byID[c.CustomerID] = c
	}

	rows := make([]Row, len(sales))
	for i, s := range sales {
		c, ok := byID[s.CustomerID]
		rows[i] = Row{Sale: s, Customer: c, Matched: ok}
	}
	return rows
}
