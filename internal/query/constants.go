package query

// PageSize is the fixed number of items per page.
const PageSize = 10

// AllWarehouses is the sentinel warehouse filter matching every item.
const AllWarehouses = "all"
