package engine

import "github.com/tatianab/kingdom-crisis/internal/models"

// ResourceAction trades some of a role's resources for others.
type ResourceAction struct {
	ID            string
	Role          models.Role
	Name          string
	Description   string
	Gain          models.Cost
	Cost          models.Cost
	Effectiveness float64
}

// InvestigationMethod is a way for a role to dig up evidence.
type InvestigationMethod struct {
	ID          string
	Role        models.Role
	Name        string
	Description string
	Cost        models.Cost
}

var resourceActions = map[models.Role][]ResourceAction{
	models.RoleKing: {
		{ID: "king_tax_collection", Name: "Tax Collection", Description: "Increase Treasury, decrease Public Trust",
			Gain: models.Cost{models.Treasury: 20}, Cost: models.Cost{models.PublicTrust: 10}, Effectiveness: 0.8},
		{ID: "king_trade_negotiations", Name: "Trade Negotiations", Description: "Increase Food Reserves, decrease Treasury",
			Gain: models.Cost{models.FoodReserves: 20}, Cost: models.Cost{models.Treasury: 15}, Effectiveness: 0.7},
		{ID: "king_resource_redistribution", Name: "Resource Redistribution", Description: "Balance resources across categories",
			Gain: models.Cost{models.Treasury: 10, models.FoodReserves: 10, models.PublicTrust: 10, models.NobleSupport: 10}, Cost: models.Cost{}, Effectiveness: 0.6},
		{ID: "king_royal_monopolies", Name: "Royal Monopolies", Description: "Establish royal monopolies to increase Treasury",
			Gain: models.Cost{models.Treasury: 25}, Cost: models.Cost{models.PublicTrust: 15}, Effectiveness: 0.7},
		{ID: "king_noble_tributes", Name: "Noble Tributes", Description: "Collect tributes from nobles to increase Treasury",
			Gain: models.Cost{models.Treasury: 20}, Cost: models.Cost{models.NobleSupport: 10}, Effectiveness: 0.6},
	},
	models.RoleCaptain: {
		{ID: "captain_personal_training", Name: "Personal Training", Description: "Increase Health, decrease Personal Funds",
			Gain: models.Cost{models.Health: 20}, Cost: models.Cost{models.PersonalFunds: 15}, Effectiveness: 0.8},
		{ID: "captain_equipment_procurement", Name: "Equipment Procurement", Description: "Increase Soldier Count, decrease Personal Funds",
			Gain: models.Cost{models.SoldierCount: 20}, Cost: models.Cost{models.PersonalFunds: 15}, Effectiveness: 0.7},
		{ID: "captain_troop_recruitment", Name: "Troop Recruitment", Description: "Increase Soldier Count, decrease Troop Loyalty",
			Gain: models.Cost{models.SoldierCount: 20}, Cost: models.Cost{models.TroopLoyalty: 10}, Effectiveness: 0.6},
		{ID: "captain_military_contracts", Name: "Military Contracts", Description: "Secure military contracts to increase Personal Funds",
			Gain: models.Cost{models.PersonalFunds: 25}, Cost: models.Cost{models.TroopLoyalty: 15}, Effectiveness: 0.7},
		{ID: "captain_mercenary_work", Name: "Mercenary Work", Description: "Take on mercenary contracts for additional funds",
			Gain: models.Cost{models.PersonalFunds: 20}, Cost: models.Cost{models.Health: 10}, Effectiveness: 0.6},
	},
	models.RoleSpy: {
		{ID: "spy_cover_maintenance", Name: "Cover Maintenance", Description: "Increase Cover Identity, decrease Covert Funds",
			Gain: models.Cost{models.CoverIdentity: 20}, Cost: models.Cost{models.CovertFunds: 15}, Effectiveness: 0.8},
		{ID: "spy_network_expansion", Name: "Network Expansion", Description: "Increase Network Contacts, decrease Covert Funds",
			Gain: models.Cost{models.NetworkContacts: 20}, Cost: models.Cost{models.CovertFunds: 15}, Effectiveness: 0.7},
		{ID: "spy_intelligence_analysis", Name: "Intelligence Analysis", Description: "Increase Intelligence, decrease Network Contacts",
			Gain: models.Cost{models.Intelligence: 20}, Cost: models.Cost{models.NetworkContacts: 10}, Effectiveness: 0.6},
		{ID: "spy_black_market_deals", Name: "Black Market Deals", Description: "Engage in black market activities to increase Covert Funds",
			Gain: models.Cost{models.CovertFunds: 25}, Cost: models.Cost{models.CoverIdentity: 15}, Effectiveness: 0.7},
		{ID: "spy_information_brokering", Name: "Information Brokering", Description: "Sell intelligence to increase Covert Funds",
			Gain: models.Cost{models.CovertFunds: 20}, Cost: models.Cost{models.Intelligence: 10}, Effectiveness: 0.6},
	},
}

var investigationMethods = map[models.Role][]InvestigationMethod{
	models.RoleKing: {
		{ID: "king_royal_surveys", Name: "Royal Surveys", Description: "Official reports from government officials",
			Cost: models.Cost{models.Treasury: 5}},
		{ID: "king_noble_consultations", Name: "Noble Consultations", Description: "Information from aristocracy and advisors",
			Cost: models.Cost{models.NobleSupport: 5}},
	},
	models.RoleCaptain: {
		{ID: "captain_military_intelligence", Name: "Military Intelligence", Description: "Security reports and troop observations",
			Cost: models.Cost{models.PersonalFunds: 5}},
		{ID: "captain_security_assessments", Name: "Security Assessments", Description: "Threat analysis and vulnerability reports",
			Cost: models.Cost{models.TroopLoyalty: 5}},
	},
	models.RoleSpy: {
		{ID: "spy_covert_infiltration", Name: "Covert Infiltration", Description: "Secret information gathering",
			Cost: models.Cost{models.CovertFunds: 5}},
		{ID: "spy_network_intelligence", Name: "Network Intelligence", Description: "Information from spy network",
			Cost: models.Cost{models.NetworkContacts: 5}},
	},
}

func init() {
	for role, actions := range resourceActions {
		for i := range actions {
			actions[i].Role = role
		}
	}
	for role, methods := range investigationMethods {
		for i := range methods {
			methods[i].Role = role
		}
	}
}

// ResourceActions lists the acquisition actions open to role.
func ResourceActions(role models.Role) []ResourceAction {
	return append([]ResourceAction(nil), resourceActions[role]...)
}

func FindResourceAction(role models.Role, id string) (ResourceAction, bool) {
	for _, a := range resourceActions[role] {
		if a.ID == id {
			return a, true
		}
	}
	return ResourceAction{}, false
}

// InvestigationMethods lists the investigation methods open to role.
func InvestigationMethods(role models.Role) []InvestigationMethod {
	return append([]InvestigationMethod(nil), investigationMethods[role]...)
}

func FindInvestigationMethod(role models.Role, id string) (InvestigationMethod, bool) {
	for _, m := range investigationMethods[role] {
		if m.ID == id {
			return m, true
		}
	}
	return InvestigationMethod{}, false
}
