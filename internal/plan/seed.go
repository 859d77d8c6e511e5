package plan

// DefaultDocument returns the seed plan written on first access and on
// corruption recovery. Task ids are the stable identifiers clients address;
// names are display-only.
func DefaultDocument() Document {
	return Document{
		"P1_INSIGHT_ENGINE": {
			Name:   "P1: The Insight Engine",
			Accent: "p1",
			Phases: map[string]Phase{
				"PHASE_1_1": {
					Name: "1.1 Data Fusion Pipeline",
					Tasks: []Task{
						{ID: "T1_1_L1_EDGAR", Name: "L1: EDGAR Connector", Status: StatusPending},
						{ID: "T1_1_L1_NEWS", Name: "L1: NewsAPI Connector", Status: StatusPending},
						{ID: "T1_1_L1_NASA", Name: "L1: NASA Connector", Status: StatusPending},
						{ID: "T1_1_L2_PLANET", Name: "L2: Satellite Imagery (Procurement)", Status: StatusPending},
						{ID: "T1_1_FUSION_ENGINE", Name: "Data Fusion Engine", Status: StatusPending},
					},
				},
				"PHASE_1_2": {
					Name: "1.2 Causal & Predictive Modeling",
					Tasks: []Task{
						{ID: "T1_2_TCI", Name: "Causal Inference Module", Status: StatusPending},
						{ID: "T1_2_NDDE_PINN", Name: "NDDE/PINN Models", Status: StatusPending},
						{ID: "T1_2_BACKTESTING", Name: "Backtesting Framework", Status: StatusPending},
					},
				},
			},
		},
		"P2_ALPHA_ONE": {
			Name:   "P2: Alpha One",
			Accent: "p2",
			Phases: map[string]Phase{
				"PHASE_2_1": {
					Name: "2.1 Command Dashboard",
					Tasks: []Task{
						{ID: "T2_1_VISUALIZATION", Name: "Real-time Visualization", Status: StatusPending},
						{ID: "T2_1_TRADE_UI", Name: "Trade Proposal UI/UX", Status: StatusPending},
						{ID: "T2_1_PNL_TRACKING", Name: "Real-time PnL Tracking", Status: StatusPending},
					},
				},
				"PHASE_2_2": {
					Name: "2.2 Trade Execution Engine",
					Tasks: []Task{
						{ID: "T2_2_BROKER_API", Name: "Global Broker API", Status: StatusPending},
						{ID: "T2_2_AUTO_AGENT", Name: "Autonomous Trading Agent", Status: StatusPending},
						{ID: "T2_2_CDT_VETO", Name: "Decision Veto Gate", Status: StatusPending},
						{ID: "T2_2_CCR_LOGGING", Name: "Execution Logging", Status: StatusPending},
					},
				},
			},
		},
		"P3_A2AAS": {
			Name:   "P3: Autonomous Delivery Platform",
			Accent: "p3",
			Phases: map[string]Phase{
				"PHASE_3_1": {
					Name: "3.1 Platform APIization",
					Tasks: []Task{
						{ID: "T3_1_TDD_API", Name: "TDD Engine API", Status: StatusPending},
						{ID: "T3_1_ORCHESTRATION_API", Name: "Orchestration API", Status: StatusPending},
					},
				},
				"PHASE_3_2": {
					Name: "3.2 Project Genesis (No-Code)",
					Tasks: []Task{
						{ID: "T3_2_BUILDER_UI", Name: "No-Code Builder UI/UX", Status: StatusPending},
						{ID: "T3_2_BACKEND_INTEGRATION", Name: "Backend Integration", Status: StatusPending},
						{ID: "T3_2_MARKETPLACE", Name: "Agent Marketplace", Status: StatusPending},
					},
				},
			},
		},
	}
}
