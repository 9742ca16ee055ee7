package lexicon

// Canonical family values.
const (
	FamilyBags        = "Bags"
	FamilyClothing    = "Clothing"
	FamilyShoes       = "Shoes"
	FamilyJewelry     = "Jewelry"
	FamilyAccessories = "Accessories"
	FamilyMiuMiu      = "Miu-Miu-Collection"
)

// BrandSite binds a canonical brand to its storefront domain.
type BrandSite struct {
	Brand  string `yaml:"brand"`
	Domain string `yaml:"domain"`
}

// ProductType maps a native-language phrase to space separated search keywords.
type ProductType struct {
	Phrase   string `yaml:"phrase"`
	Keywords string `yaml:"keywords"`
}

// builtinWebsites is ordered: brand extraction returns the first entry found in a query.
var builtinWebsites = []BrandSite{
	{"dior", "dior.com"},
	{"gucci", "gucci.com"},
	{"prada", "prada.com"},
	{"burberry", "burberry.com"},
	{"fendi", "fendi.com"},
	{"celine", "celine.com"},
	{"loewe", "loewe.com"},
	{"maxmara", "maxmara.com"},
	{"moncler", "moncler.com"},
	{"ysl", "ysl.com"},
	{"saint laurent", "ysl.com"},
	{"miumiu", "miumiu.com"},
	{"margiela", "maisonmargiela.com"},
	{"acne", "acnestudios.com"},
	{"qeelin", "qeelin.com"},
	{"fred", "fred.com"},
	{"chanel", "chanel.com"},
	{"hermes", "hermes.com"},
	{"louis vuitton", "louisvuitton.com"},
	{"lv", "louisvuitton.com"},
	{"cartier", "cartier.com"},
	{"tiffany", "tiffany.com"},
	{"bulgari", "bulgari.com"},
	{"bvlgari", "bulgari.com"},
	{"versace", "versace.com"},
	{"valentino", "valentino.com"},
	{"balenciaga", "balenciaga.com"},
	{"bottega veneta", "bottegaveneta.com"},
	{"givenchy", "givenchy.com"},
	{"alexander mcqueen", "alexandermcqueen.com"},
	{"chloe", "chloe.com"},
	{"ferragamo", "ferragamo.com"},
	{"armani", "armani.com"},
	{"dolce gabbana", "dolcegabbana.com"},
	{"coach", "coach.com"},
	{"michael kors", "michaelkors.com"},
	{"kate spade", "katespade.com"},
	{"tod", "tods.com"},
	{"roger vivier", "rogervivier.com"},
	{"jimmy choo", "jimmychoo.com"},
	{"christian louboutin", "christianlouboutin.com"},
	{"omega", "omegawatches.com"},
	{"rolex", "rolex.com"},
	{"patek philippe", "patek.com"},
	{"van cleef", "vancleefarpels.com"},
}

var builtinAliases = map[string]string{
	// dior
	"迪奥":             "dior",
	"christian dior": "dior",
	"克里斯汀迪奥":         "dior",
	// gucci
	"古驰": "gucci",
	"古琦": "gucci",
	"古奇": "gucci",
	// prada
	"普拉达": "prada",
	"普拉達": "prada",
	// hermes
	"爱马仕":  "hermes",
	"愛馬仕":  "hermes",
	"艾尔梅斯": "hermes",
	// chanel
	"香奈儿": "chanel",
	"香奈兒": "chanel",
	"夏奈尔": "chanel",
	// saint laurent
	"圣罗兰":   "saint laurent",
	"聖羅蘭":   "saint laurent",
	"ysl":   "saint laurent",
	"伊夫圣罗兰": "saint laurent",
	// louis vuitton
	"路易威登": "louis vuitton",
	"路易維登": "louis vuitton",
	"lv":   "louis vuitton",
	"威登":   "louis vuitton",
	// burberry
	"巴宝莉": "burberry",
	"巴寶莉": "burberry",
	"博柏利": "burberry",
	// fendi
	"芬迪": "fendi",
	"芬蒂": "fendi",
	// celine
	"赛琳":     "celine",
	"塞琳":     "celine",
	"思琳":     "celine",
	"céline": "celine",
	// loewe
	"罗意威": "loewe",
	"羅意威": "loewe",
	"罗威":  "loewe",
	// maxmara
	"麦丝玛拉":     "maxmara",
	"麥絲瑪拉":     "maxmara",
	"max mara": "maxmara",
	// moncler
	"盟可睐": "moncler",
	"蒙口":  "moncler",
	"蒙克莱": "moncler",
	// miumiu
	"缪缪":      "miumiu",
	"繆繆":      "miumiu",
	"miu miu": "miumiu",
	// margiela
	"马吉拉":             "margiela",
	"馬吉拉":             "margiela",
	"maison margiela": "margiela",
	"mm6":             "margiela",
	// cartier
	"卡地亚": "cartier",
	"卡地亞": "cartier",
	// tiffany
	"蒂芙尼":        "tiffany",
	"蒂凡尼":        "tiffany",
	"tiffany co": "tiffany",
	// bulgari
	"宝格丽":     "bulgari",
	"寶格麗":     "bulgari",
	"bvlgari": "bulgari",
	// versace
	"范思哲": "versace",
	"範思哲": "versace",
	"凡赛斯": "versace",
	// valentino
	"华伦天奴": "valentino",
	"華倫天奴": "valentino",
	// balenciaga
	"巴黎世家": "balenciaga",
	// bottega veneta
	"葆蝶家": "bottega veneta",
	"bv":  "bottega veneta",
	"宝缇嘉": "bottega veneta",
	// givenchy
	"纪梵希": "givenchy",
	"紀梵希": "givenchy",
	// alexander mcqueen
	"亚历山大麦昆":  "alexander mcqueen",
	"麦昆":      "alexander mcqueen",
	"mcqueen": "alexander mcqueen",
	// chloe
	"蔻依":    "chloe",
	"珂洛艾伊":  "chloe",
	"chloé": "chloe",
	// ferragamo
	"菲拉格慕":                "ferragamo",
	"菲拉格默":                "ferragamo",
	"salvatore ferragamo": "ferragamo",
	// armani
	"阿玛尼":            "armani",
	"亞曼尼":            "armani",
	"giorgio armani": "armani",
	// dolce gabbana
	"杜嘉班纳": "dolce gabbana",
	"dg":   "dolce gabbana",
	"d&g":  "dolce gabbana",
	// coach
	"蔻驰": "coach",
	"寇驰": "coach",
	// michael kors
	"迈克高仕": "michael kors",
	"mk":   "michael kors",
	// kate spade
	"凯特丝蓓": "kate spade",
	"ks":   "kate spade",
	// tod's
	"托德斯":   "tod",
	"tods":  "tod",
	"tod's": "tod",
	// roger vivier
	"罗杰维维亚": "roger vivier",
	"rv":    "roger vivier",
	// jimmy choo
	"周仰杰": "jimmy choo",
	"吉米周": "jimmy choo",
	// christian louboutin
	"红底鞋":       "christian louboutin",
	"鲁布托":       "christian louboutin",
	"louboutin": "christian louboutin",
	"cl":        "christian louboutin",
	// omega
	"欧米茄": "omega",
	"歐米茄": "omega",
	// rolex
	"劳力士": "rolex",
	"勞力士": "rolex",
	// patek philippe
	"百达翡丽": "patek philippe",
	"百達翡麗": "patek philippe",
	// van cleef
	"梵克雅宝": "van cleef",
	"梵克雅寶": "van cleef",
	"vca":  "van cleef",
	// acne
	"艾克妮":          "acne",
	"acne studios": "acne",
	// qeelin
	"麒麟": "qeelin",
	// fred
	"斐登": "fred",
}

// builtinFamilies is keyed by the lowercased raw catalog category.
var builtinFamilies = map[string]string{
	"collection_miumiu": FamilyMiuMiu,
	"collection miumiu": FamilyMiuMiu,
	"miumiu collection": FamilyMiuMiu,

	"sacs":                                 FamilyBags,
	"sac":                                  FamilyBags,
	"sacs à main":                          FamilyBags,
	"mini-sacs":                            FamilyBags,
	"petite-maroquinerie":                  FamilyBags,
	"petite maroquinerie":                  FamilyBags,
	"portefeuilles":                        FamilyBags,
	"portefeuilles-et-petite-maroquinerie": FamilyBags,
	"portefeuilles & petite maroquinerie":  FamilyBags,
	"portefeuilles & porte-cartes":         FamilyBags,
	"bagages":                              FamilyBags,
	"sacs et chaussures":                   FamilyBags, // mixed, bags take priority

	"vêtements":                FamilyClothing,
	"vêtements d'extérieur":    FamilyClothing,
	"pret-a-porter":            FamilyClothing,
	"prêt-à-porter":            FamilyClothing,
	"prêt-a-porter":            FamilyClothing,
	"pret-a-porter-homme":      FamilyClothing,
	"manteaux":                 FamilyClothing,
	"manteaux & vestes":        FamilyClothing,
	"femme":                    FamilyClothing,
	"homme":                    FamilyClothing,
	"chaussures":               FamilyShoes,
	"souliers":                 FamilyShoes,
	"chaussures & accessoires": FamilyShoes,

	"bijoux":           FamilyJewelry,
	"bijoux en argent": FamilyJewelry,
	"bijoux fantaisie": FamilyJewelry,
	"accessoires":      FamilyAccessories,
	"autres-lignes":    FamilyAccessories,

	"moncler genius":              FamilyAccessories,
	"moncler grenoble pour femme": FamilyAccessories,
	"moncler grenoble pour homme": FamilyAccessories,
	"collections":                 FamilyAccessories,
	"cadeaux":                     FamilyAccessories,
	"à la une":                    FamilyAccessories,
	"mode été":                    FamilyAccessories,
	"bébé garçons 3 à 36 mois":    FamilyAccessories,
}

// builtinProductTypes is ordered; only the first matching phrase is used.
var builtinProductTypes = []ProductType{
	// clothing
	{"裙子", "skirt jupe robe dress"},
	{"裙", "skirt jupe robe dress"},
	{"连衣裙", "dress robe"},
	{"半裙", "skirt jupe"},
	{"外套", "coat jacket manteau veste"},
	{"大衣", "coat manteau overcoat"},
	{"夹克", "jacket veste blouson"},
	{"风衣", "trench coat trench"},
	{"西装", "suit blazer costume"},
	{"衬衫", "shirt chemise blouse"},
	{"毛衣", "sweater pull pullover knitwear"},
	{"针织", "knitwear maille tricot"},
	{"T恤", "t-shirt tee"},
	{"裤子", "pants trousers pantalon"},
	{"牛仔裤", "jeans denim"},
	{"短裤", "shorts"},
	// bags
	{"包", "bag sac handbag"},
	{"包包", "bag sac handbag"},
	{"手袋", "handbag sac"},
	{"手提包", "tote bag cabas"},
	{"斜挎包", "crossbody bag bandouliere"},
	{"单肩包", "shoulder bag"},
	{"双肩包", "backpack sac dos"},
	{"钱包", "wallet portefeuille"},
	{"卡包", "card holder porte carte"},
	{"腰包", "belt bag"},
	// shoes
	{"鞋", "shoes chaussures"},
	{"鞋子", "shoes chaussures"},
	{"高跟鞋", "heels pumps escarpins"},
	{"运动鞋", "sneakers baskets trainers"},
	{"凉鞋", "sandals sandales"},
	{"靴子", "boots bottes"},
	{"乐福鞋", "loafers mocassins"},
	{"平底鞋", "flats ballerines"},
	// accessories
	{"手表", "watch montre"},
	{"腕表", "watch montre timepiece"},
	{"项链", "necklace collier"},
	{"戒指", "ring bague"},
	{"耳环", "earrings boucles oreilles"},
	{"手链", "bracelet"},
	{"手镯", "bangle bracelet"},
	{"太阳镜", "sunglasses lunettes soleil"},
	{"眼镜", "glasses lunettes"},
	{"围巾", "scarf foulard echarpe"},
	{"丝巾", "silk scarf carre"},
	{"帽子", "hat chapeau cap"},
	{"皮带", "belt ceinture"},
	{"腰带", "belt ceinture"},
	// jewelry
	{"珠宝", "jewelry joaillerie bijoux"},
	{"首饰", "jewelry bijoux accessoires"},
	{"钻石", "diamond diamant"},
	// beauty
	{"香水", "perfume parfum fragrance"},
	{"口红", "lipstick rouge levres"},
	{"化妆品", "makeup maquillage cosmetics"},
}

// LatestKeywords trigger the "latest collection" search augmentation.
var LatestKeywords = []string{"最新", "new", "latest", "newest", "recent", "nouveau", "nouveauté"}
