package mcc

// DefaultCodes returns the built-in MCC reference set covering the common
// retail categories.
func DefaultCodes() []Code {
	return []Code{
		// Groceries / supermarkets
		{Code: "5411", Name: "Grocery Stores", Category: "Groceries"},
		{Code: "5422", Name: "Freezer/Meat Provisioners", Category: "Groceries"},
		{Code: "5441", Name: "Candy/Nut/Confection", Category: "Groceries"},
		{Code: "5451", Name: "Dairy Products", Category: "Groceries"},
		{Code: "5462", Name: "Bakeries", Category: "Groceries"},

		// Restaurants
		{Code: "5812", Name: "Eating Places", Category: "Restaurants"},
		{Code: "5813", Name: "Drinking Places", Category: "Restaurants"},
		{Code: "5814", Name: "Fast Food", Category: "Restaurants"},

		// Transport / gas
		{Code: "5541", Name: "Gas Stations", Category: "Transport"},
		{Code: "5542", Name: "Automated Fuel Dispensers", Category: "Transport"},
		{Code: "4111", Name: "Local Transport", Category: "Transport"},
		{Code: "4112", Name: "Passenger Rail", Category: "Transport"},
		{Code: "4121", Name: "Taxicabs", Category: "Transport"},

		// Entertainment
		{Code: "7832", Name: "Motion Picture Theaters", Category: "Entertainment"},
		{Code: "7922", Name: "Theatrical Producers", Category: "Entertainment"},
		{Code: "7994", Name: "Video Game Arcades", Category: "Entertainment"},
		{Code: "7996", Name: "Amusement Parks", Category: "Entertainment"},

		// Health / pharmacy
		{Code: "5912", Name: "Drug Stores", Category: "Health"},
		{Code: "8011", Name: "Doctors", Category: "Health"},
		{Code: "8021", Name: "Dentists", Category: "Health"},
		{Code: "8031", Name: "Optometrists", Category: "Health"},

		// Clothing / shopping
		{Code: "5651", Name: "Family Clothing", Category: "Clothing"},
		{Code: "5661", Name: "Shoe Stores", Category: "Clothing"},
		{Code: "5311", Name: "Department Stores", Category: "Shopping"},

		// Utilities
		{Code: "4900", Name: "Utilities", Category: "Utilities"},
		{Code: "4814", Name: "Telecom", Category: "Utilities"},
		{Code: "4899", Name: "Cable/Satellite", Category: "Utilities"},

		// Electronics
		{Code: "5732", Name: "Electronics", Category: "Electronics"},
		{Code: "5946", Name: "Camera/Photo", Category: "Electronics"},

		// Home
		{Code: "5200", Name: "Home Supply", Category: "Home"},
		{Code: "5712", Name: "Furniture", Category: "Home"},

		// Sports
		{Code: "5941", Name: "Sporting Goods", Category: "Sports"},
		{Code: "7997", Name: "Membership Clubs", Category: "Sports"},

		// Education
		{Code: "8299", Name: "Schools", Category: "Education"},
		{Code: "8211", Name: "Elementary Schools", Category: "Education"},
		{Code: "8220", Name: "Colleges", Category: "Education"},

		// Services
		{Code: "7210", Name: "Laundry", Category: "Services"},
		{Code: "7230", Name: "Beauty Shops", Category: "Services"},
		{Code: "7299", Name: "Other Services", Category: "Services"},
	}
}
