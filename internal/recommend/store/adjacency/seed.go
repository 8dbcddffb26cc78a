package adjacency

// KoreaRegions is the default main-region adjacency table. Jeju has no land
// neighbours and maps to an empty list.
func KoreaRegions() map[string][]string {
	return map[string][]string{
		"Seoul":     {"Gyeonggi", "Incheon"},
		"Incheon":   {"Seoul", "Gyeonggi"},
		"Gyeonggi":  {"Seoul", "Incheon", "Gangwon", "Chungbuk", "Chungnam"},
		"Gangwon":   {"Gyeonggi", "Chungbuk", "Gyeongbuk"},
		"Chungbuk":  {"Daejeon", "Sejong", "Chungnam", "Gyeonggi", "Gangwon", "Gyeongbuk", "Jeonbuk"},
		"Chungnam":  {"Daejeon", "Sejong", "Chungbuk", "Gyeonggi", "Jeonbuk"},
		"Daejeon":   {"Sejong", "Chungnam", "Chungbuk"},
		"Sejong":    {"Daejeon", "Chungnam", "Chungbuk"},
		"Jeonbuk":   {"Gwangju", "Jeonnam", "Chungnam", "Chungbuk", "Gyeongnam", "Gyeongbuk"},
		"Jeonnam":   {"Gwangju", "Jeonbuk", "Gyeongnam"},
		"Gwangju":   {"Jeonnam", "Jeonbuk"},
		"Gyeongbuk": {"Daegu", "Ulsan", "Gyeongnam", "Chungbuk", "Gangwon", "Jeonbuk"},
		"Gyeongnam": {"Busan", "Ulsan", "Daegu", "Gyeongbuk", "Jeonnam", "Jeonbuk"},
		"Daegu":     {"Gyeongbuk", "Gyeongnam"},
		"Ulsan":     {"Busan", "Gyeongnam", "Gyeongbuk"},
		"Busan":     {"Ulsan", "Gyeongnam"},
		"Jeju":      {},
	}
}
