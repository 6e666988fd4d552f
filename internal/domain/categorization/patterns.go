package categorization

// Category names used by the built-in pattern set.
const (
	CategoryGroceries     = "Groceries"
	CategoryDining        = "Dining"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryEntertainment = "Entertainment"
	CategoryUtilities     = "Utilities"
	CategoryHousing       = "Housing"
	CategoryHealth        = "Health"
	CategoryIncome        = "Income"
	CategoryTransfers     = "Transfers"
	CategoryFees          = "Fees"
	CategoryCash          = "Cash"
	CategoryTravel        = "Travel"
	CategoryInsurance     = "Insurance"
	CategorySubscriptions = "Subscriptions"
)

// DefaultPatterns returns the built-in merchant keyword set. Keywords are
// matched case-insensitively inside the transaction description.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// Groceries
		{Keyword: "TESCO", Category: CategoryGroceries},
		{Keyword: "SAINSBURY", Category: CategoryGroceries},
		{Keyword: "ALDI", Category: CategoryGroceries},
		{Keyword: "LIDL", Category: CategoryGroceries},
		{Keyword: "WAITROSE", Category: CategoryGroceries},
		{Keyword: "MORRISONS", Category: CategoryGroceries},
		{Keyword: "ASDA", Category: CategoryGroceries},
		{Keyword: "WHOLE FOODS", Category: CategoryGroceries},
		{Keyword: "TRADER JOE", Category: CategoryGroceries},
		{Keyword: "WALMART", Category: CategoryGroceries},
		{Keyword: "COSTCO", Category: CategoryGroceries},
		{Keyword: "SUPERMARKET", Category: CategoryGroceries},
		{Keyword: "GROCERY", Category: CategoryGroceries},

		// Dining
		{Keyword: "STARBUCKS", Category: CategoryDining},
		{Keyword: "MCDONALD", Category: CategoryDining},
		{Keyword: "KFC", Category: CategoryDining},
		{Keyword: "BURGER KING", Category: CategoryDining},
		{Keyword: "SUBWAY", Category: CategoryDining},
		{Keyword: "NANDO", Category: CategoryDining},
		{Keyword: "PRET A MANGER", Category: CategoryDining},
		{Keyword: "DELIVEROO", Category: CategoryDining},
		{Keyword: "UBER EATS", Category: CategoryDining},
		{Keyword: "JUST EAT", Category: CategoryDining},
		{Keyword: "DOORDASH", Category: CategoryDining},
		{Keyword: "RESTAURANT", Category: CategoryDining},
		{Keyword: "CAFE", Category: CategoryDining},
		{Keyword: "COFFEE", Category: CategoryDining},

		// Transport
		{Keyword: "UBER", Category: CategoryTransport},
		{Keyword: "LYFT", Category: CategoryTransport},
		{Keyword: "BOLT", Category: CategoryTransport},
		{Keyword: "TFL TRAVEL", Category: CategoryTransport},
		{Keyword: "TRAINLINE", Category: CategoryTransport},
		{Keyword: "NATIONAL RAIL", Category: CategoryTransport},
		{Keyword: "SHELL", Category: CategoryTransport},
		{Keyword: "ESSO", Category: CategoryTransport},
		{Keyword: "BP FUEL", Category: CategoryTransport},
		{Keyword: "PETROL", Category: CategoryTransport},
		{Keyword: "PARKING", Category: CategoryTransport},

		// Shopping
		{Keyword: "AMAZON", Category: CategoryShopping},
		{Keyword: "EBAY", Category: CategoryShopping},
		{Keyword: "ETSY", Category: CategoryShopping},
		{Keyword: "ARGOS", Category: CategoryShopping},
		{Keyword: "IKEA", Category: CategoryShopping},
		{Keyword: "JOHN LEWIS", Category: CategoryShopping},
		{Keyword: "ZARA", Category: CategoryShopping},
		{Keyword: "H&M", Category: CategoryShopping},
		{Keyword: "PRIMARK", Category: CategoryShopping},
		{Keyword: "APPLE STORE", Category: CategoryShopping},

		// Entertainment and subscriptions
		{Keyword: "NETFLIX", Category: CategorySubscriptions},
		{Keyword: "SPOTIFY", Category: CategorySubscriptions},
		{Keyword: "DISNEY", Category: CategorySubscriptions},
		{Keyword: "AMAZON PRIME", Category: CategorySubscriptions},
		{Keyword: "YOUTUBE PREMIUM", Category: CategorySubscriptions},
		{Keyword: "AUDIBLE", Category: CategorySubscriptions},
		{Keyword: "PLAYSTATION", Category: CategoryEntertainment},
		{Keyword: "STEAM", Category: CategoryEntertainment},
		{Keyword: "NINTENDO", Category: CategoryEntertainment},
		{Keyword: "CINEMA", Category: CategoryEntertainment},
		{Keyword: "ODEON", Category: CategoryEntertainment},
		{Keyword: "TICKETMASTER", Category: CategoryEntertainment},

		// Utilities
		{Keyword: "BRITISH GAS", Category: CategoryUtilities},
		{Keyword: "EDF ENERGY", Category: CategoryUtilities},
		{Keyword: "OCTOPUS ENERGY", Category: CategoryUtilities},
		{Keyword: "THAMES WATER", Category: CategoryUtilities},
		{Keyword: "VODAFONE", Category: CategoryUtilities},
		{Keyword: "O2", Category: CategoryUtilities},
		{Keyword: "EE LIMITED", Category: CategoryUtilities},
		{Keyword: "VIRGIN MEDIA", Category: CategoryUtilities},
		{Keyword: "BROADBAND", Category: CategoryUtilities},
		{Keyword: "COUNCIL TAX", Category: CategoryUtilities},

		// Housing
		{Keyword: "RENT", Category: CategoryHousing},
		{Keyword: "MORTGAGE", Category: CategoryHousing},
		{Keyword: "LANDLORD", Category: CategoryHousing},

		// Health
		{Keyword: "PHARMACY", Category: CategoryHealth},
		{Keyword: "BOOTS", Category: CategoryHealth},
		{Keyword: "DENTAL", Category: CategoryHealth},
		{Keyword: "GYM", Category: CategoryHealth},
		{Keyword: "PURE GYM", Category: CategoryHealth},
		{Keyword: "FITNESS", Category: CategoryHealth},

		// Income
		{Keyword: "SALARY", Category: CategoryIncome},
		{Keyword: "PAYROLL", Category: CategoryIncome},
		{Keyword: "DIVIDEND", Category: CategoryIncome},
		{Keyword: "INTEREST PAID", Category: CategoryIncome},
		{Keyword: "REFUND", Category: CategoryIncome},

		// Transfers
		{Keyword: "TRANSFER", Category: CategoryTransfers},
		{Keyword: "STANDING ORDER", Category: CategoryTransfers},
		{Keyword: "DIRECT DEBIT", Category: CategoryTransfers},
		{Keyword: "FASTER PAYMENT", Category: CategoryTransfers},
		{Keyword: "PAYPAL", Category: CategoryTransfers},
		{Keyword: "REVOLUT", Category: CategoryTransfers},
		{Keyword: "WISE", Category: CategoryTransfers},
		{Keyword: "MONZO", Category: CategoryTransfers},

		// Fees
		{Keyword: "OVERDRAFT", Category: CategoryFees},
		{Keyword: "MONTHLY FEE", Category: CategoryFees},
		{Keyword: "ACCOUNT FEE", Category: CategoryFees},
		{Keyword: "CHARGE", Category: CategoryFees},
		{Keyword: "INTEREST CHARGED", Category: CategoryFees},

		// Cash
		{Keyword: "ATM", Category: CategoryCash},
		{Keyword: "CASH WITHDRAWAL", Category: CategoryCash},
		{Keyword: "CASHPOINT", Category: CategoryCash},

		// Travel
		{Keyword: "AIRBNB", Category: CategoryTravel},
		{Keyword: "BOOKING.COM", Category: CategoryTravel},
		{Keyword: "EXPEDIA", Category: CategoryTravel},
		{Keyword: "RYANAIR", Category: CategoryTravel},
		{Keyword: "EASYJET", Category: CategoryTravel},
		{Keyword: "BRITISH AIRWAYS", Category: CategoryTravel},
		{Keyword: "HOTEL", Category: CategoryTravel},

		// Insurance
		{Keyword: "AVIVA", Category: CategoryInsurance},
		{Keyword: "AXA", Category: CategoryInsurance},
		{Keyword: "ADMIRAL", Category: CategoryInsurance},
		{Keyword: "INSURANCE", Category: CategoryInsurance},
	}
}
