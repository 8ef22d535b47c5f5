package nutrition

import "time"

// ResolvedConfidence 解析成功項目的固定信心值。
// 引擎不對單次萃取建模不確定性，只區分有無解析成功。
const ResolvedConfidence = 0.8

// Calculate 依成分表計算每個項目與合計的 PFC。
// 成分表查無的項目整筆略過（不計入合計），其名稱收集於第二個返回值供上層記錄。
// 合計在加總後才做一位小數的捨入，避免逐項捨入誤差在合計層疊加；
// 各項目的顯示值另行獨立捨入，因此合計與項目顯示值的總和可能相差最多每項 0.1。
func Calculate(items []NormalizedItem) (*PFCResult, []string) {
	result := &PFCResult{
		Items:      make([]ItemResult, 0, len(items)),
		AnalyzedAt: time.Now(),
	}

	var unknown []string
	var totalProtein, totalFat, totalCarbs, totalCalories float64

	for _, item := range items {
		profile, ok := LookupProfile(item.Name)
		if !ok {
			unknown = append(unknown, item.Name)
			continue
		}

		// multiplier = 基準單位量 / 100
		multiplier := item.Amount / 100

		protein := profile.Protein * multiplier
		fat := profile.Fat * multiplier
		carbs := profile.Carbs * multiplier
		calories := profile.Calories * multiplier

		totalProtein += protein
		totalFat += fat
		totalCarbs += carbs
		totalCalories += calories

		result.Items = append(result.Items, ItemResult{
			Name:   item.Name,
			Amount: Round1(item.Amount),
			Macros: Macros{
				Protein:  Round1(protein),
				Fat:      Round1(fat),
				Carbs:    Round1(carbs),
				Calories: Round1(calories),
			},
			Confidence: ResolvedConfidence,
		})
	}

	result.Total = Macros{
		Protein:  Round1(totalProtein),
		Fat:      Round1(totalFat),
		Carbs:    Round1(totalCarbs),
		Calories: Round1(totalCalories),
	}

	return result, unknown
}
