package resource

// Catalog of the three admin collections. Paths and response-shape quirks
// follow the backend contract: user creation answers {user: entity} while
// the other create endpoints answer the bare entity, and the list endpoints
// for users and products may wrap the sequence in an envelope.

var Users = Schema{
	Name:           "users",
	Singular:       "user",
	ListPath:       "/api/getAllUsers",
	CreatePath:     "/api/save",
	UpdatePath:     "/api/update/%s",
	ListWrapKeys:   []string{"userList", "users"},
	CreatedWrapKey: "user",
	SearchField:    "name",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText, Required: true},
		{Name: "email", Label: "Email", Kind: KindText, Required: true, Rules: "email"},
	},
}

var Products = Schema{
	Name:            "products",
	Singular:        "product",
	ListPath:        "/api/getp",
	CreatePath:      "/api/crearp",
	UpdatePath:      "/api/updatep/%s",
	ListWrapKeys:    []string{"productList", "products"},
	StampCreateDate: true,
	SearchField:     "name",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: KindText, Required: true},
		{Name: "description", Label: "Description", Kind: KindText},
		{Name: "amount", Label: "Amount", Kind: KindInteger, Required: true, Rules: "min=0"},
		{Name: "price", Label: "Price", Kind: KindNumber, Required: true, Rules: "min=0"},
		{Name: "status", Label: "Status (active/inactive)", Kind: KindBool, Default: true},
	},
}

var Orders = Schema{
	Name:            "orders",
	Singular:        "order",
	ListPath:        "/api/getO",
	CreatePath:      "/api/crearO",
	UpdatePath:      "/api/updateO/%s",
	StampCreateDate: true,
	SearchField:     "user",
	Fields: []Field{
		{Name: "user", Label: "User ID", Kind: KindText, Required: true},
		{Name: "subtotal", Label: "Subtotal", Kind: KindNumber, Required: true, Rules: "min=0"},
		{Name: "total", Label: "Total", Kind: KindNumber, Required: true, Rules: "min=0"},
		{Name: "status", Label: "Status (active/cancelled)", Kind: KindBool, Default: true},
	},
}

// Catalog lists every managed collection in menu order.
var Catalog = []Schema{Users, Products, Orders}
