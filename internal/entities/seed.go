package entities

import "github.com/mesh-intelligence/storefront/pkg/types"

// DefaultProducts returns the catalog written on first access to products.
func DefaultProducts() []types.Product {
	return []types.Product{
		{
			ID:          "1",
			Name:        "Urban Velocity X1",
			Price:       159.99,
			Category:    types.CategoryRunning,
			Gender:      types.GenderMen,
			Description: "Engineered for speed and comfort, the Velocity X1 features a breathable mesh upper and responsive cushioning.",
			Images:      []string{"https://images.unsplash.com/photo-1542291026-7eec264c27ff?q=80&w=1000&auto=format&fit=crop"},
			Sizes:       []float64{7, 8, 9, 10, 11, 12},
			Colors:      []string{"Orange", "Black"},
			Featured:    true,
		},
		{
			ID:          "2",
			Name:        "Street Glide High",
			Price:       129.99,
			Category:    types.CategorySneakers,
			Gender:      types.GenderUnisex,
			Description: "Iconic high-top silhouette designed for the urban landscape. Durable leather with a classic grip sole.",
			Images:      []string{"https://images.unsplash.com/photo-1549298916-b41d501d3772?q=80&w=1000&auto=format&fit=crop"},
			Sizes:       []float64{6, 7, 8, 9, 10, 11},
			Colors:      []string{"Tan", "White"},
			Featured:    true,
		},
		{
			ID:          "3",
			Name:        "Cloud Walker 7",
			Price:       189.99,
			Category:    types.CategoryClassic,
			Gender:      types.GenderWomen,
			Description: "The pinnacle of luxury walking. Featuring our proprietary Cloud-Tech foam for weightless movement.",
			Images:      []string{"https://images.unsplash.com/photo-1560769629-975ec94e6a86?q=80&w=1000&auto=format&fit=crop"},
			Sizes:       []float64{5, 6, 7, 8, 9},
			Colors:      []string{"White", "Pastel Pink"},
			Featured:    true,
		},
		{
			ID:          "4",
			Name:        "Trail Blazer Low",
			Price:       145.00,
			Category:    types.CategoryOutdoor,
			Gender:      types.GenderMen,
			Description: "Rugged, water-resistant, and ready for any terrain. All-weather traction outsole for maximum stability.",
			Images:      []string{"https://images.unsplash.com/photo-1539185441755-769473a23570?q=80&w=1000&auto=format&fit=crop"},
			Sizes:       []float64{8, 9, 10, 11, 12, 13},
			Colors:      []string{"Forest Green", "Black"},
		},
		{
			ID:          "5",
			Name:        "Aero Soft Runner",
			Price:       95.00,
			Category:    types.CategoryRunning,
			Gender:      types.GenderWomen,
			Description: "Lightweight everyday runner with a flexible sole and soft-touch fabric lining.",
			Images:      []string{"https://images.unsplash.com/photo-1460353581641-37baddab0fa2?q=80&w=1000&auto=format&fit=crop"},
			Sizes:       []float64{6, 7, 8, 9},
			Colors:      []string{"Grey", "Mint"},
		},
		{
			ID:          "6",
			Name:        "Retro Pulse",
			Price:       110.00,
			Category:    types.CategorySneakers,
			Gender:      types.GenderUnisex,
			Description: "Bring back the 90s with this retro-inspired chunky sneaker. Bold colors and premium suede overlays.",
			Images:      []string{"https://images.unsplash.com/photo-1595950653106-6c9ebd614d3a?q=80&w=1000&auto=format&fit=crop"},
			Sizes:       []float64{7, 8, 9, 10, 11},
			Colors:      []string{"Multi", "White"},
		},
	}
}

// DefaultUsers returns the chat participants written on first access.
func DefaultUsers() []types.User {
	return []types.User{
		{ID: "u1", Name: "User A"},
		{ID: "u2", Name: "User B"},
	}
}

// DefaultChats returns the chat boards written on first access.
func DefaultChats() []types.ChatBoard {
	return []types.ChatBoard{
		{
			ID:    "c1",
			Title: "General",
			Messages: []types.ChatMessage{
				{ID: "m1", ChatID: "c1", UserID: "u1", Text: "Hello", TS: 1700000000000},
			},
		},
	}
}

// initial states: absent request fields decode onto these.
var (
	initialProduct = types.Product{
		Category: types.CategorySneakers,
		Gender:   types.GenderUnisex,
		Images:   []string{},
		Sizes:    []float64{},
		Colors:   []string{},
	}
	initialOrder = types.Order{
		Items:  []types.OrderItem{},
		Status: types.StatusPending,
	}
	initialChat = types.ChatBoard{Messages: []types.ChatMessage{}}
)
