package lifedrop

import "lifedrop/internal/model"

// Stats counts both collections. MostRequested is the type with the most
// requests; on a tie the type seen first walking newest to oldest wins.
func (s *Service) Stats() model.Stats {
	receivers := s.receivers.List()
	return model.Stats{
		Donors:        s.donors.Len(),
		Receivers:     len(receivers),
		MostRequested: mostRequested(receivers),
	}
}

func mostRequested(receivers []model.Receiver) model.BloodType {
	counts := make(map[model.BloodType]int)
	var order []model.BloodType
	for _, r := range receivers {
		if counts[r.Blood] == 0 {
			order = append(order, r.Blood)
		}
		counts[r.Blood]++
	}

	best := model.APos
	bestCount := 0
	for _, bt := range order {
		if counts[bt] > bestCount {
			best, bestCount = bt, counts[bt]
		}
	}
	return best
}
