package types

// CategoryType is the coarse classification that decides which facets apply.
type CategoryType string

const (
	CategoryShoes       CategoryType = "shoes"
	CategoryWatches     CategoryType = "watches"
	CategoryFashion     CategoryType = "fashion"
	CategoryElectronics CategoryType = "electronics"
	CategoryKitchen     CategoryType = "kitchen"
	CategoryGroceries   CategoryType = "groceries"
	CategoryBeauty      CategoryType = "beauty"
	CategoryToys        CategoryType = "toys"
	CategorySports      CategoryType = "sports"
	CategoryGeneral     CategoryType = "general"
)

// FacetKind names a filterable dimension as sent by the view layer.
type FacetKind string

const (
	FacetRating       FacetKind = "rating"
	FacetBrand        FacetKind = "brand"
	FacetGender       FacetKind = "gender"
	FacetColor        FacetKind = "color"
	FacetSize         FacetKind = "size"
	FacetSubcategory  FacetKind = "subcategory"
	FacetPriceRange   FacetKind = "priceRange"
	FacetMaxPrice     FacetKind = "maxPrice"
	FacetAvailability FacetKind = "availability"
	FacetCategory     FacetKind = "category"
)
