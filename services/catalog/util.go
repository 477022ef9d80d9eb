package catalog

import "github.com/shopspring/decimal"

func DemoProducts() []Product {
	return []Product{
		{UID: "product_hockey_stick", Name: "Hockey stick", Price: decimal.RequireFromString("190.00")},
		{UID: "product_hockey_shoes", Name: "Hockey shoes", Price: decimal.RequireFromString("120.00")},
		{UID: "product_jogging_pants", Name: "Jogging pants", Price: decimal.RequireFromString("60.00")},
		{UID: "product_sweat_shirt", Name: "Sweat shirt", Price: decimal.RequireFromString("70.00")},
		{UID: "product_hoody", Name: "Hoody", Price: decimal.RequireFromString("80.00")},
		{UID: "product_tennis_racket", Name: "Tennis racket", Price: decimal.RequireFromString("169.00")},
		{UID: "product_tennis_balls", Name: "Tennis balls", Description: "Can of 3", Price: decimal.RequireFromString("10.50")},
		{UID: "product_tennis_shoes", Name: "Tennis shoes", Price: decimal.RequireFromString("120.00")},
		{UID: "product_running_shoes", Name: "Running shoes", Price: decimal.RequireFromString("119.95")},
		{UID: "product_running_shirt", Name: "Running shirt", Price: decimal.RequireFromString("49.99")},
		{UID: "product_running_shorts", Name: "Running shorts", Price: decimal.RequireFromString("39.99")},
		{UID: "product_running_socks", Name: "Running socks", Description: "Pair", Price: decimal.RequireFromString("9.95")},
		{UID: "product_running_cap", Name: "Running cap", Price: decimal.RequireFromString("20.00")},
	}
}
