package models

import "sort"

// Property is a catalog entry for an income-producing asset
type Property struct {
	ID              string
	Name            string
	Emoji           string
	Price           int64
	Description     string
	Income          int64
	CollectionHours int
}

// ShopItem is a purchasable inventory item
type ShopItem struct {
	ID          string
	Name        string
	Emoji       string
	Price       int64
	Description string
	Category    string
}

// Job is a work assignment with a pay range and its own cooldown
type Job struct {
	ID              string
	Description     string
	MinPay          int64
	MaxPay          int64
	CooldownMinutes int
	Skill           string
}

// LootTier groups loot by rarity
type LootTier string

const (
	LootTierCommon    LootTier = "common"
	LootTierUncommon  LootTier = "uncommon"
	LootTierRare      LootTier = "rare"
	LootTierLegendary LootTier = "legendary"
)

const (
	ItemPropertyDeed    = "property_deed"
	ItemBankCertificate = "bank_certificate"
	ItemThiefMask       = "thief_mask"
)

var properties = map[string]Property{
	"small_hutch":       {ID: "small_hutch", Name: "Small Hutch", Emoji: "🏠", Price: 10000, Description: "A cozy little burrow", Income: 100, CollectionHours: 24},
	"medium_hutch":      {ID: "medium_hutch", Name: "Medium Hutch", Emoji: "🏡", Price: 25000, Description: "A mid-sized burrow with a garden", Income: 250, CollectionHours: 24},
	"large_hutch":       {ID: "large_hutch", Name: "Large Hutch", Emoji: "🏘️", Price: 50000, Description: "A roomy burrow for a big warren", Income: 500, CollectionHours: 24},
	"carrot_farm":       {ID: "carrot_farm", Name: "Carrot Farm", Emoji: "🚜", Price: 75000, Description: "A farm that grows carrots", Income: 800, CollectionHours: 24},
	"carrot_shop":       {ID: "carrot_shop", Name: "Carrot Shop", Emoji: "🏪", Price: 100000, Description: "A store that sells carrots", Income: 1200, CollectionHours: 24},
	"carrot_restaurant": {ID: "carrot_restaurant", Name: "Carrot Restaurant", Emoji: "🍽️", Price: 150000, Description: "A restaurant specializing in carrots", Income: 1800, CollectionHours: 24},
	"rabbit_hotel":      {ID: "rabbit_hotel", Name: "Rabbit Hotel", Emoji: "🏨", Price: 200000, Description: "A luxury hotel for travelling rabbits", Income: 2500, CollectionHours: 24},
	"carrot_factory":    {ID: "carrot_factory", Name: "Carrot Factory", Emoji: "🏭", Price: 300000, Description: "A plant that processes carrots", Income: 3500, CollectionHours: 24},
	"carrot_theme_park": {ID: "carrot_theme_park", Name: "Carrot Theme Park", Emoji: "🎡", Price: 500000, Description: "A theme park full of carrot rides", Income: 5000, CollectionHours: 24},
}

var shopItems = map[string]ShopItem{
	"carrot":           {ID: "carrot", Name: "Carrot", Emoji: "🥕", Price: 50, Description: "A fresh carrot for your rabbits", Category: "consumable"},
	"carrot_seeds":     {ID: "carrot_seeds", Name: "Carrot Seeds", Emoji: "🌱", Price: 30, Description: "Plant them to grow carrots", Category: "seed"},
	"water":            {ID: "water", Name: "Watering Can", Emoji: "💧", Price: 100, Description: "Water your crops so they grow faster", Category: "tool"},
	"rabbit_house":     {ID: "rabbit_house", Name: "Rabbit House", Emoji: "🏠", Price: 500, Description: "A cozy home for your rabbits", Category: "upgrade"},
	"bunny_hat":        {ID: "bunny_hat", Name: "Bunny Hat", Emoji: "🎩", Price: 300, Description: "A stylish hat for your profile", Category: "cosmetic"},
	"golden_carrot":    {ID: "golden_carrot", Name: "Golden Carrot", Emoji: "✨", Price: 1000, Description: "A special carrot that boosts earnings", Category: "boost"},
	"fishing_rod":      {ID: "fishing_rod", Name: "Fishing Rod", Emoji: "🎣", Price: 750, Description: "Lets you fish for prizes", Category: "tool"},
	"lucky_clover":     {ID: "lucky_clover", Name: "Lucky Clover", Emoji: "🍀", Price: 600, Description: "Improves your odds of success", Category: "boost"},
	"mystery_box":      {ID: "mystery_box", Name: "Mystery Box", Emoji: "📦", Price: 800, Description: "Contains a random surprise", Category: "consumable"},
	"thief_mask":       {ID: "thief_mask", Name: "Thief Mask", Emoji: "🎭", Price: 1200, Description: "Lets you rob other players, at a risk", Category: "tool"},
	"mining_pick":      {ID: "mining_pick", Name: "Mining Pick", Emoji: "⛏️", Price: 850, Description: "Lets you dig for valuable ore", Category: "tool"},
	"carrot_soup":      {ID: "carrot_soup", Name: "Carrot Soup", Emoji: "🍲", Price: 150, Description: "Restores energy and trims cooldowns", Category: "consumable"},
	"business_license": {ID: "business_license", Name: "Business License", Emoji: "📜", Price: 2500, Description: "Allows you to open a business", Category: "special"},
	"property_deed":    {ID: "property_deed", Name: "Property Deed", Emoji: "📝", Price: 5000, Description: "Required to acquire a property", Category: "special"},
	"bank_certificate": {ID: "bank_certificate", Name: "Bank Certificate", Emoji: "🏛️", Price: 3000, Description: "Halves bank transfer fees", Category: "special"},
	"investment_bond":  {ID: "investment_bond", Name: "Investment Bond", Emoji: "💼", Price: 2000, Description: "Earns passive interest over time", Category: "investment"},
	"carrot_factory":   {ID: "carrot_factory", Name: "Carrot Factory Kit", Emoji: "🏭", Price: 8000, Description: "Produces carrots passively", Category: "investment"},
	"rabbit_insurance": {ID: "rabbit_insurance", Name: "Rabbit Insurance", Emoji: "📊", Price: 1500, Description: "Protects your rabbits from theft and loss", Category: "insurance"},
}

var jobs = map[string]Job{
	"farmer":     {ID: "farmer", Description: "Grow carrots and look after rabbits", MinPay: 80, MaxPay: 200, CooldownMinutes: 30, Skill: "agriculture"},
	"cook":       {ID: "cook", Description: "Prepare tasty dishes for rabbits", MinPay: 100, MaxPay: 220, CooldownMinutes: 35, Skill: "cooking"},
	"vet":        {ID: "vet", Description: "Keep the rabbits healthy", MinPay: 150, MaxPay: 300, CooldownMinutes: 45, Skill: "medicine"},
	"trainer":    {ID: "trainer", Description: "Train rabbits for competitions", MinPay: 120, MaxPay: 250, CooldownMinutes: 40, Skill: "training"},
	"explorer":   {ID: "explorer", Description: "Search for rare resources", MinPay: 200, MaxPay: 400, CooldownMinutes: 60, Skill: "exploration"},
	"miner":      {ID: "miner", Description: "Dig up valuable ore", MinPay: 180, MaxPay: 350, CooldownMinutes: 50, Skill: "mining"},
	"scientist":  {ID: "scientist", Description: "Research new rabbit technology", MinPay: 250, MaxPay: 450, CooldownMinutes: 75, Skill: "science"},
	"fisher":     {ID: "fisher", Description: "Catch food for the warren", MinPay: 120, MaxPay: 280, CooldownMinutes: 40, Skill: "fishing"},
	"carpenter":  {ID: "carpenter", Description: "Build houses and furniture", MinPay: 160, MaxPay: 320, CooldownMinutes: 45, Skill: "construction"},
	"blacksmith": {ID: "blacksmith", Description: "Forge tools and gear", MinPay: 170, MaxPay: 340, CooldownMinutes: 50, Skill: "smithing"},
	"lawyer":     {ID: "lawyer", Description: "Settle disputes between rabbits", MinPay: 300, MaxPay: 500, CooldownMinutes: 90, Skill: "law"},
	"banker":     {ID: "banker", Description: "Manage the warren's finances", MinPay: 280, MaxPay: 480, CooldownMinutes: 80, Skill: "finance"},
}

var lootTable = map[LootTier][]string{
	LootTierCommon:    {"carrot", "water", "carrot_seeds", "carrot_soup"},
	LootTierUncommon:  {"bunny_hat", "fishing_rod", "lucky_clover", "mining_pick"},
	LootTierRare:      {"rabbit_house", "golden_carrot", "mystery_box", "rabbit_insurance"},
	LootTierLegendary: {"diamond_carrot", "royal_bunny", "magic_hutch", "carrot_factory", "property_deed"},
}

// GetProperty looks up a property in the catalog
func GetProperty(id string) (Property, bool) {
	p, ok := properties[id]
	return p, ok
}

// Properties returns the property catalog ordered by price
func Properties() []Property {
	list := make([]Property, 0, len(properties))
	for _, p := range properties {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Price < list[j].Price })
	return list
}

// GetShopItem looks up a shop item
func GetShopItem(id string) (ShopItem, bool) {
	item, ok := shopItems[id]
	return item, ok
}

// ShopItems returns the shop catalog ordered by price, then id
func ShopItems() []ShopItem {
	list := make([]ShopItem, 0, len(shopItems))
	for _, item := range shopItems {
		list = append(list, item)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Price == list[j].Price {
			return list[i].ID < list[j].ID
		}
		return list[i].Price < list[j].Price
	})
	return list
}

// GetJob looks up a job
func GetJob(id string) (Job, bool) {
	job, ok := jobs[id]
	return job, ok
}

// Jobs returns every job ordered by id
func Jobs() []Job {
	list := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		list = append(list, job)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// LootFor returns the item ids in a loot tier
func LootFor(tier LootTier) []string {
	return lootTable[tier]
}
