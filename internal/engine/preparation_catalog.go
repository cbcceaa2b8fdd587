package engine

import "github.com/tatianab/kingdom-crisis/internal/models"

// preparationLines lists, for each role and crisis, the high, medium and low
// tier actions in that order. Every line spends the same two resources.
var preparationLines = []preparationLine{
	{models.RoleKing, models.FamineCascade, models.Treasury, models.FoodReserves, [3]preparationName{
		{"king_famine_emergency_food", "Emergency Food Distribution"},
		{"king_famine_agricultural_investment", "Agricultural Investment"},
		{"king_famine_trade_embargo", "Trade Embargo Lifting"},
	}},
	{models.RoleKing, models.PandemicSurge, models.Treasury, models.PublicTrust, [3]preparationName{
		{"king_pandemic_medical_infrastructure", "Medical Infrastructure"},
		{"king_pandemic_quarantine_protocols", "Quarantine Protocols"},
		{"king_pandemic_healer_recruitment", "Healer Recruitment"},
	}},
	{models.RoleKing, models.InvasionRebellion, models.Treasury, models.NobleSupport, [3]preparationName{
		{"king_invasion_military_funding", "Military Funding"},
		{"king_invasion_defense_fortification", "Defense Fortification"},
		{"king_invasion_diplomatic_outreach", "Diplomatic Outreach"},
	}},
	{models.RoleKing, models.CultUprising, models.Treasury, models.PublicTrust, [3]preparationName{
		{"king_cult_religious_reforms", "Religious Reforms"},
		{"king_cult_investigation", "Cult Investigation"},
		{"king_cult_public_education", "Public Education"},
	}},
	{models.RoleKing, models.EnvironmentalCatastrophe, models.Treasury, models.FoodReserves, [3]preparationName{
		{"king_environmental_disaster_preparedness", "Disaster Preparedness"},
		{"king_environmental_evacuation_plans", "Evacuation Plans"},
		{"king_environmental_resource_stockpiling", "Resource Stockpiling"},
	}},
	{models.RoleKing, models.CropBlight, models.Treasury, models.FoodReserves, [3]preparationName{
		{"king_crop_seed_distribution", "Seed Distribution"},
		{"king_crop_agricultural_research", "Agricultural Research"},
		{"king_crop_farmer_support", "Farmer Support"},
	}},
	{models.RoleKing, models.EconomicCollapse, models.Treasury, models.NobleSupport, [3]preparationName{
		{"king_economic_reforms", "Economic Reforms"},
		{"king_economic_market_stabilization", "Market Stabilization"},
		{"king_economic_currency_devaluation", "Currency Devaluation"},
	}},
	{models.RoleKing, models.SupernaturalRift, models.Treasury, models.NobleSupport, [3]preparationName{
		{"king_supernatural_arcane_research", "Arcane Research"},
		{"king_supernatural_mystical_defenses", "Mystical Defenses"},
		{"king_supernatural_scholar_recruitment", "Scholar Recruitment"},
	}},
	{models.RoleCaptain, models.FamineCascade, models.PersonalFunds, models.SoldierCount, [3]preparationName{
		{"captain_famine_food_security", "Food Security Operations"},
		{"captain_famine_supply_chain", "Supply Chain Protection"},
		{"captain_famine_ration_management", "Ration Management"},
	}},
	{models.RoleCaptain, models.PandemicSurge, models.PersonalFunds, models.Health, [3]preparationName{
		{"captain_pandemic_medical_security", "Medical Security"},
		{"captain_pandemic_quarantine_enforcement", "Quarantine Enforcement"},
		{"captain_pandemic_health_monitoring", "Health Monitoring"},
	}},
	{models.RoleCaptain, models.InvasionRebellion, models.PersonalFunds, models.SoldierCount, [3]preparationName{
		{"captain_invasion_defense_mobilization", "Defense Mobilization"},
		{"captain_invasion_fortress_reinforcement", "Fortress Reinforcement"},
		{"captain_invasion_patrol_intensification", "Patrol Intensification"},
	}},
	{models.RoleCaptain, models.CultUprising, models.PersonalFunds, models.TroopLoyalty, [3]preparationName{
		{"captain_cult_infiltration", "Cult Infiltration"},
		{"captain_cult_religious_security", "Religious Security"},
		{"captain_cult_surveillance_operations", "Surveillance Operations"},
	}},
	{models.RoleCaptain, models.EnvironmentalCatastrophe, models.PersonalFunds, models.SoldierCount, [3]preparationName{
		{"captain_environmental_disaster_response", "Disaster Response"},
		{"captain_environmental_evacuation_security", "Evacuation Security"},
		{"captain_environmental_emergency_protocols", "Emergency Protocols"},
	}},
	{models.RoleCaptain, models.CropBlight, models.PersonalFunds, models.SoldierCount, [3]preparationName{
		{"captain_crop_agricultural_security", "Agricultural Security"},
		{"captain_crop_farm_protection", "Farm Protection"},
		{"captain_crop_harvest_security", "Harvest Security"},
	}},
	{models.RoleCaptain, models.EconomicCollapse, models.PersonalFunds, models.TroopLoyalty, [3]preparationName{
		{"captain_economic_security", "Economic Security"},
		{"captain_economic_market_protection", "Market Protection"},
		{"captain_economic_trade_security", "Trade Security"},
	}},
	{models.RoleCaptain, models.SupernaturalRift, models.PersonalFunds, models.TroopLoyalty, [3]preparationName{
		{"captain_supernatural_arcane_defense", "Arcane Defense"},
		{"captain_supernatural_mystical_security", "Mystical Security"},
		{"captain_supernatural_monitoring", "Supernatural Monitoring"},
	}},
	{models.RoleSpy, models.FamineCascade, models.CovertFunds, models.CoverIdentity, [3]preparationName{
		{"spy_famine_sabotage_prevention", "Food Sabotage Prevention"},
		{"spy_famine_supply_chain_intelligence", "Supply Chain Intelligence"},
		{"spy_famine_agricultural_espionage", "Agricultural Espionage"},
	}},
	{models.RoleSpy, models.PandemicSurge, models.CovertFunds, models.Intelligence, [3]preparationName{
		{"spy_pandemic_biological_warfare_defense", "Biological Warfare Defense"},
		{"spy_pandemic_medical_intelligence", "Medical Intelligence"},
		{"spy_pandemic_health_surveillance", "Health Surveillance"},
	}},
	{models.RoleSpy, models.InvasionRebellion, models.CovertFunds, models.NetworkContacts, [3]preparationName{
		{"spy_invasion_enemy_infiltration", "Enemy Infiltration"},
		{"spy_invasion_military_intelligence", "Military Intelligence"},
		{"spy_invasion_threat_assessment", "Threat Assessment"},
	}},
	{models.RoleSpy, models.CultUprising, models.CovertFunds, models.CoverIdentity, [3]preparationName{
		{"spy_cult_infiltration", "Cult Infiltration"},
		{"spy_cult_religious_intelligence", "Religious Intelligence"},
		{"spy_cult_supernatural_investigation", "Supernatural Investigation"},
	}},
	{models.RoleSpy, models.EnvironmentalCatastrophe, models.CovertFunds, models.Intelligence, [3]preparationName{
		{"spy_environmental_disaster_intelligence", "Disaster Intelligence"},
		{"spy_environmental_espionage", "Environmental Espionage"},
		{"spy_environmental_crisis_monitoring", "Crisis Monitoring"},
	}},
	{models.RoleSpy, models.CropBlight, models.CovertFunds, models.CoverIdentity, [3]preparationName{
		{"spy_crop_agricultural_sabotage_prevention", "Agricultural Sabotage Prevention"},
		{"spy_crop_farm_intelligence", "Farm Intelligence"},
		{"spy_crop_surveillance", "Crop Surveillance"},
	}},
	{models.RoleSpy, models.EconomicCollapse, models.CovertFunds, models.NetworkContacts, [3]preparationName{
		{"spy_economic_sabotage_prevention", "Economic Sabotage Prevention"},
		{"spy_economic_financial_intelligence", "Financial Intelligence"},
		{"spy_economic_market_surveillance", "Market Surveillance"},
	}},
	{models.RoleSpy, models.SupernaturalRift, models.CovertFunds, models.Intelligence, [3]preparationName{
		{"spy_supernatural_arcane_intelligence", "Arcane Intelligence"},
		{"spy_supernatural_mystical_espionage", "Mystical Espionage"},
		{"spy_supernatural_surveillance", "Supernatural Surveillance"},
	}},
}
