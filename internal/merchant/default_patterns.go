package merchant

// DefaultPatterns returns the built-in merchant pattern table. Specific
// merchant names carry higher priority than generic keywords so that, for
// example, "METRO CASH AND CARRY" resolves to Groceries before the plain
// "metro" transport rule can claim it.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// Groceries / supermarkets
		{Name: "Pyatyorochka", Regex: `пят[её]рочка|pyaterochka|pyatyorochka|x5 retail`, Category: "Groceries", Priority: 90},
		{Name: "Magnit", Regex: `магнит|magnit`, Category: "Groceries", Priority: 90},
		{Name: "Lenta", Regex: `лента|lenta`, Category: "Groceries", Priority: 90},
		{Name: "Auchan", Regex: `ашан|auchan`, Category: "Groceries", Priority: 90},
		{Name: "Perekrestok", Regex: `перекр[её]сток|perekrestok|x5 group`, Category: "Groceries", Priority: 90},
		{Name: "VkusVill", Regex: `вкусвилл|vkusvill`, Category: "Groceries", Priority: 90},
		{Name: "Metro Cash", Regex: `metro cash|метро кэш`, Category: "Groceries", Priority: 90},
		{Name: "Okey", Regex: `окей|okey`, Category: "Groceries", Priority: 90},
		{Name: "Spar", Regex: `\bspar\b|спар`, Category: "Groceries", Priority: 90},
		{Name: "Dixy", Regex: `dixy|дикси`, Category: "Groceries", Priority: 90},
		{Name: "Fix Price", Regex: `fix price|фикс прайс`, Category: "Groceries", Priority: 90},

		// Restaurants / food delivery
		{Name: "Yandex Eda", Regex: `яндекс.?еда|yandex.?eda|eda\.yandex`, Category: "Restaurants", Priority: 90},
		{Name: "Delivery Club", Regex: `delivery club|деливери клаб`, Category: "Restaurants", Priority: 90},
		{Name: "SberFood", Regex: `sberfood|сберфуд|сбер еда`, Category: "Restaurants", Priority: 90},
		{Name: "McDonalds", Regex: `mcdonalds|макдоналдс`, Category: "Restaurants", Priority: 90},
		{Name: "KFC", Regex: `\bkfc\b|кфс`, Category: "Restaurants", Priority: 90},
		{Name: "Burger King", Regex: `burger king|бургер кинг`, Category: "Restaurants", Priority: 90},
		{Name: "Starbucks", Regex: `starbucks|старбакс`, Category: "Restaurants", Priority: 90},
		{Name: "Coffee Like", Regex: `coffee like|кофе лайк`, Category: "Restaurants", Priority: 90},
		{Name: "Shokoladnitsa", Regex: `шоколадница|shokoladnitsa`, Category: "Restaurants", Priority: 90},
		{Name: "Cafe generic", Regex: `кафе|cafe|restaurant`, Category: "Restaurants", Priority: 50},

		// Transport / gas stations / taxi
		{Name: "Shell", Regex: `shell|шелл`, Category: "Transport", Priority: 90},
		{Name: "Gazpromneft", Regex: `газпромнефть|gazpromneft|gpnbest`, Category: "Transport", Priority: 90},
		{Name: "Lukoil", Regex: `лукойл|lukoil`, Category: "Transport", Priority: 90},
		{Name: "Tatneft", Regex: `татнефть|tatneft`, Category: "Transport", Priority: 90},
		{Name: "Rosneft", Regex: `роснефть|rosneft`, Category: "Transport", Priority: 90},
		{Name: "Uber/Yandex Taxi", Regex: `uber|убер|yandex\.taxi|яндекс.?такси`, Category: "Transport", Priority: 90},
		{Name: "Citymobil", Regex: `citymobil|ситимобил`, Category: "Transport", Priority: 90},
		{Name: "Aeroexpress", Regex: `аэроэкспресс|aeroexpress`, Category: "Transport", Priority: 90},
		{Name: "Rail", Regex: `ржд|rzd|ж/д|поезд`, Category: "Transport", Priority: 85},
		{Name: "Airlines", Regex: `авиабилет|airline|aeroflot|победа|s7 airlines`, Category: "Transport", Priority: 85},
		{Name: "Metro generic", Regex: `метро|subway|underground`, Category: "Transport", Priority: 50},

		// Entertainment
		{Name: "Cinema", Regex: `кино|cinema|kinopoisk|кинопоиск`, Category: "Entertainment", Priority: 85},
		{Name: "Streaming", Regex: `netflix|нетфликс|ivi|окко|okko|amediateka|wink`, Category: "Entertainment", Priority: 90},
		{Name: "Spotify", Regex: `spotify|спотифай`, Category: "Entertainment", Priority: 90},
		{Name: "YouTube", Regex: `youtube|ютуб`, Category: "Entertainment", Priority: 90},
		{Name: "Gaming", Regex: `steam|стим|epic games|playstation|ps store|xbox`, Category: "Entertainment", Priority: 90},
		{Name: "Bowling", Regex: `bowling|боулинг|картинг|karting`, Category: "Entertainment", Priority: 85},

		// Health / pharmacies
		{Name: "Pharmacy", Regex: `аптека|pharmacy|apteka|eapteka|еаптека`, Category: "Health", Priority: 90},
		{Name: "Rigla", Regex: `rigla|ригла`, Category: "Health", Priority: 90},
		{Name: "Clinic", Regex: `поликлиника|clinic|стоматолог|dentist`, Category: "Health", Priority: 85},

		// Electronics / marketplaces
		{Name: "DNS", Regex: `\bdns\b|днс`, Category: "Electronics", Priority: 90},
		{Name: "Citilink", Regex: `ситилинк|citilink`, Category: "Electronics", Priority: 90},
		{Name: "M.Video", Regex: `м\.видео|m\.video|эльдорадо|eldorado`, Category: "Electronics", Priority: 90},
		{Name: "Apple", Regex: `re:store|\bapple\b`, Category: "Electronics", Priority: 90},
		{Name: "Ozon", Regex: `ozon|озон`, Category: "Electronics", Priority: 90},
		{Name: "Wildberries", Regex: `wildberries|вайлдберриз|\bwb\b`, Category: "Electronics", Priority: 90},
		{Name: "AliExpress", Regex: `aliexpress|алиэкспресс|alibaba`, Category: "Electronics", Priority: 90},
		{Name: "Yandex Market", Regex: `yandex\.market|яндекс.?маркет`, Category: "Electronics", Priority: 90},

		// Home / DIY
		{Name: "Leroy Merlin", Regex: `leroy|леруа`, Category: "Home", Priority: 90},
		{Name: "OBI", Regex: `\bobi\b|оби`, Category: "Home", Priority: 90},
		{Name: "IKEA", Regex: `ikea|икея`, Category: "Home", Priority: 90},
		{Name: "Hoff", Regex: `hoff|хофф`, Category: "Home", Priority: 90},
		{Name: "Petrovich", Regex: `петрович|petrovich|все инструменты|vseinstrumenti`, Category: "Home", Priority: 90},

		// Clothing
		{Name: "H&M", Regex: `h&m|h & m`, Category: "Clothing", Priority: 90},
		{Name: "Zara", Regex: `zara|зара`, Category: "Clothing", Priority: 90},
		{Name: "Uniqlo", Regex: `uniqlo|юникло`, Category: "Clothing", Priority: 90},
		{Name: "Lamoda", Regex: `lamoda|ламода`, Category: "Clothing", Priority: 90},
		{Name: "Sportmaster", Regex: `sportmaster|спортмастер|decathlon|декатлон`, Category: "Clothing", Priority: 90},

		// Services / beauty
		{Name: "Beauty", Regex: `салон красоты|beauty salon|маникюр|парикмахерская`, Category: "Services", Priority: 85},
		{Name: "Cleaning", Regex: `химчист|dry clean|прачечная|laundry`, Category: "Services", Priority: 85},
		{Name: "Repair", Regex: `ремонт|repair service`, Category: "Services", Priority: 60},

		// Income / transfers / loans
		{Name: "Salary", Regex: `зарплата|salary|payroll|аванс|advance`, Category: "Income", Priority: 95},
		{Name: "Interest", Regex: `проценты|interest`, Category: "Income", Priority: 95},
		{Name: "Bonus", Regex: `премия|bonus`, Category: "Income", Priority: 90},
		{Name: "Transfer", Regex: `перевод|transfer|p2p`, Category: "Transfer", Priority: 80},
		{Name: "Loan payment", Regex: `погашение кредита|loan payment`, Category: "Loans", Priority: 90},

		// Telecom / utilities
		{Name: "MTS", Regex: `мтс|\bmts\b`, Category: "Utilities", Priority: 90},
		{Name: "Beeline", Regex: `билайн|beeline|вымпелком`, Category: "Utilities", Priority: 90},
		{Name: "Megafon", Regex: `мегафон|megafon`, Category: "Utilities", Priority: 90},
		{Name: "Tele2", Regex: `tele2|теле2|yota|йота`, Category: "Utilities", Priority: 90},
		{Name: "Rostelecom", Regex: `rostelecom|ростелеком|дом\.ru`, Category: "Utilities", Priority: 90},
	}
}
